// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the hew.yaml target configuration. A config maps
// target names to command definitions which are built into runnables via the
// command registry. Built-in defaults provide the lint, lint-fix, format,
// format-fix and typecheck targets so they are invokable without a config
// file; a user config overrides or extends them per target.
package config
