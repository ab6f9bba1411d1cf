// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package serialcommand

import "github.com/matt-FFFFFF/hew/internal/commandregistry"

const commandType = "serial"

// Register registers the serial command type in the given registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, &Commander{})
}
