//go:build spellscript

package main

import "spellapi"

func Light(c spellapi.Call) bool {
	c.Say("You feel enlightened.")
	return true
}

func UltimateLight(c spellapi.Call) bool {
	c.Say("You feel brightly enlightened.")
	return true
}
