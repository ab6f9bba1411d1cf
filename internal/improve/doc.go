// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package improve runs the iterative solution improvement loop. Each
// iteration renders a prompt, pipes it to a generator command on stdin,
// extracts the last fenced code block from the generator's stdout, saves the
// candidate and evaluates it. The loop stops on a score threshold, on
// diminishing returns or after a maximum number of iterations.
package improve
