// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/editwheel/editwheel/cmd/editwheel"

func main() {
	cmd.Execute()
}
