// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commandregistry maps command type strings to their commanders.
// It satisfies the commands.CommanderFactory interface.
package commandregistry
