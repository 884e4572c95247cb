// entitydump builds the entity database from a registry file and
// writes it as JSON, for debugging category and macro assignments.
package main

import (
	"fmt"
	"os"

	"github.com/KhronosGroup/OpenXR-CTS/pkg/entity"
	"github.com/KhronosGroup/OpenXR-CTS/pkg/registry"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintln(os.Stderr, "Usage: entitydump <registry.xml> [family]")
		os.Exit(2)
	}

	family := ""
	if len(os.Args) == 3 {
		family = os.Args[2]
	}
	fam, err := entity.FamilyByName(family)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(2)
	}

	reg, err := registry.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(2)
	}

	data, err := entity.NewDatabase(reg, fam).JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(2)
	}
	os.Stdout.Write(data)
	fmt.Println()
}
