// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-carried structured logger built on slog.
// The log level is read from an environment variable derived from the
// executable name, e.g. HEW_LOG_LEVEL. Accepted values are "DEBUG", "INFO",
// "WARN" and "ERROR"; anything else defaults to "WARN".
package ctxlog
