// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package foreachproblem

import "github.com/matt-FFFFFF/hew/internal/commandregistry"

const commandType = "foreachproblem"

// Register registers the foreachproblem command type in the given registry.
func Register(r commandregistry.Registry) {
	r.Register(commandType, &Commander{})
}
