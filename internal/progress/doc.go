// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress defines the events emitted during command execution and
// the reporters that carry them. Reporters travel in the context so that
// nested batches and commands can publish without threading extra state.
package progress
