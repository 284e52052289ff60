//go:build spellscript

package main

import (
	"fmt"
	"math/rand"

	"spellapi"
)

func heal(c spellapi.Call, min, max int) bool {
	amount := min + rand.Intn(max-min+1) + int(c.Level)/5 + int(c.MagicLevel)*2
	if c.TargetID != 0 && c.TargetID != c.CasterID {
		c.Say(fmt.Sprintf("You heal %s for %d hitpoints.", c.TargetName, amount))
		return true
	}
	c.Say(fmt.Sprintf("You heal yourself for %d hitpoints.", amount))
	return true
}

func LightHealing(c spellapi.Call) bool {
	return heal(c, 10, 25)
}

func IntenseHealing(c spellapi.Call) bool {
	return heal(c, 30, 60)
}

func HealFriend(c spellapi.Call) bool {
	if c.TargetID == 0 {
		return false
	}
	return heal(c, 50, 100)
}
