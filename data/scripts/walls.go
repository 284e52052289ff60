//go:build spellscript

package main

import (
	"fmt"

	"spellapi"
)

func MagicWall(c spellapi.Call) bool {
	c.Say(fmt.Sprintf("A magic wall rises at %d, %d, %d.", c.X, c.Y, c.Z))
	return true
}
