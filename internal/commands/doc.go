// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands defines the interfaces shared by all command types: the
// Commander that turns a YAML definition into a runnable, and the factory
// that dispatches definitions to registered commanders.
package commands
