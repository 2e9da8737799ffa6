// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/extboot/extboot/cmd/extboot"

func main() {
	cmd.Execute()
}
