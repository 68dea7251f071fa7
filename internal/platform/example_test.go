package platform_test

import (
	"fmt"

	"github.com/benchgen/benchgen/internal/platform"
)

func ExampleParseTarget() {
	target, err := platform.ParseTarget("macOS")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(target)
	// Output: macOS
}

func ExampleInfo_Target() {
	info := &platform.Info{
		OS:       "linux",
		Platform: "fedora",
		Family:   platform.FamilyFedora,
	}

	// Every Linux flavor resolves to the ubuntu package column.
	fmt.Println(info.Target())
	// Output: ubuntu
}

func ExampleInfo_GetDistro() {
	info := &platform.Info{
		OS:       "linux",
		Platform: "ubuntu",
		Family:   platform.FamilyDebian,
		Version:  "22.04",
	}

	if d := info.GetDistro(); d != nil {
		fmt.Printf("%s %s (%s family)\n", d.ID, d.Version, d.Family)
	}
	// Output: ubuntu 22.04 (debian family)
}
