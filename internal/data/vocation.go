package data

import "strings"

// Vocation IDs.
const (
	VocationNone         int32 = 0
	VocationSorcerer     int32 = 1
	VocationDruid        int32 = 2
	VocationPaladin      int32 = 3
	VocationKnight       int32 = 4
	VocationMasterSorc   int32 = 5
	VocationElderDruid   int32 = 6
	VocationRoyalPaladin int32 = 7
	VocationEliteKnight  int32 = 8
)

// VocationInfo holds metadata for a single vocation.
type VocationInfo struct {
	ID       int32
	Name     string
	ParentID int32 // -1 = base vocation
}

// vocationTable is indexed by vocation id.
var vocationTable = map[int32]*VocationInfo{
	VocationNone:         {ID: VocationNone, Name: "None", ParentID: -1},
	VocationSorcerer:     {ID: VocationSorcerer, Name: "Sorcerer", ParentID: -1},
	VocationDruid:        {ID: VocationDruid, Name: "Druid", ParentID: -1},
	VocationPaladin:      {ID: VocationPaladin, Name: "Paladin", ParentID: -1},
	VocationKnight:       {ID: VocationKnight, Name: "Knight", ParentID: -1},
	VocationMasterSorc:   {ID: VocationMasterSorc, Name: "Master Sorcerer", ParentID: VocationSorcerer},
	VocationElderDruid:   {ID: VocationElderDruid, Name: "Elder Druid", ParentID: VocationDruid},
	VocationRoyalPaladin: {ID: VocationRoyalPaladin, Name: "Royal Paladin", ParentID: VocationPaladin},
	VocationEliteKnight:  {ID: VocationEliteKnight, Name: "Elite Knight", ParentID: VocationKnight},
}

var vocationByName map[string]int32

func init() {
	vocationByName = make(map[string]int32, len(vocationTable))
	for id, v := range vocationTable {
		vocationByName[strings.ToLower(v.Name)] = id
	}
}

// GetVocation returns vocation metadata, nil if unknown.
func GetVocation(id int32) *VocationInfo {
	return vocationTable[id]
}

// KnownVocation reports whether id is a vocation.
func KnownVocation(id int32) bool {
	_, ok := vocationTable[id]
	return ok
}

// VocationByName resolves a vocation name, case-insensitively.
func VocationByName(name string) (int32, bool) {
	id, ok := vocationByName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// WithPromotions returns id and the promoted vocation derived from it, if any.
func WithPromotions(id int32) []int32 {
	out := []int32{id}
	for _, v := range vocationTable {
		if v.ParentID == id {
			out = append(out, v.ID)
		}
	}
	return out
}
