package peep

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DisplayName is the name shown for a peep: the player's name for it if one
// was given, otherwise a generated one.
func (p *Peep) DisplayName(realNames bool) string {
	if p.Name != "" {
		return p.Name
	}
	if s := p.Staff(); s != nil {
		return fmt.Sprintf("%s %d", staffTitles[s.Type%StaffTypeCount], p.ID)
	}
	if realNames {
		return realName(p.ID)
	}
	return fmt.Sprintf("Guest %d", p.ID)
}

var staffTitles = [StaffTypeCount]string{"Handyman", "Mechanic", "Security Guard", "Entertainer"}

// realName builds a stable "First I." name from a guest number.
func realName(id uint32) string {
	h := id * 2654435761
	first := realFirstNames[h%uint32(len(realFirstNames))]
	initial := realInitials[(h>>16)%uint32(len(realInitials))]
	return first + " " + string(initial) + "."
}

// MaxNameLength is the longest name, in bytes, a peep can carry.
const MaxNameLength = 32

// SetName renames a peep. Some names carry special behaviour.
func (p *Peep) SetName(name string) {
	name = strings.TrimSpace(name)
	for len(name) > MaxNameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	p.Name = name
	p.WindowInvalidate |= InvalidateStats
	if p.Type == TypeGuest {
		p.handleEasterEggName()
	}
}

// handleEasterEggName clears every name-driven flag and sets the one the
// current name asks for.
func (p *Peep) handleEasterEggName() {
	for _, f := range easterEggNames {
		p.Flags &^= f
	}
	if f, ok := easterEggNames[strings.ToUpper(p.Name)]; ok {
		p.Flags |= f
	}
}

// CheckEasterEggName reports whether the peep carries a given special name.
func (p *Peep) CheckEasterEggName(name string) bool {
	return strings.EqualFold(p.Name, name)
}

var easterEggNames = map[string]Flags{
	"KATIE BRAYSHAW":    FlagWaving,
	"CHRIS SAWYER":      FlagPhoto,
	"SIMON FOSTER":      FlagPainting,
	"JOHN WARDLEY":      FlagWow,
	"FELICITY ANDERSON": FlagLitter,
	"DONALD MACRAE":     FlagHunger,
	"KATIE SMITH":       FlagToilet,
	"EILIDH BELL":       FlagCrowded,
	"NANCY STILLWAGON":  FlagHappiness,
	"ANDY HINE":         FlagNausea,
	"ELISSA WHITE":      FlagPurple,
	"DAVID ELLIS":       FlagPizza,
	"KATHERINE MCGOWAN": FlagContagious,
	"FRANCES MCGOWAN":   FlagJoy,
	"CORINA MASSOURA":   FlagAngry,
	"CAROL YOUNG":       FlagIceCream,
	"MIA SHERIDAN":      FlagHereWeAre,
}

var realFirstNames = []string{
	"Aaron", "Abdul", "Abraham", "Adam", "Adrian", "Ahmed", "Alan", "Albert",
	"Alex", "Alice", "Amanda", "Amy", "Andrew", "Angela", "Anna", "Anthony",
	"Barbara", "Barry", "Ben", "Beth", "Bill", "Bob", "Brenda", "Brian",
	"Carl", "Carol", "Catherine", "Charles", "Chris", "Claire", "Colin", "Craig",
	"Daniel", "David", "Dean", "Debbie", "Derek", "Diane", "Donna", "Douglas",
	"Edward", "Elaine", "Elizabeth", "Emma", "Eric", "Fiona", "Frank", "Gary",
	"George", "Gordon", "Graham", "Hannah", "Harry", "Helen", "Ian", "Jack",
	"James", "Jane", "Jason", "Jenny", "John", "Karen", "Kate", "Keith",
	"Kevin", "Laura", "Lisa", "Louise", "Mark", "Martin", "Mary", "Michael",
	"Nancy", "Neil", "Nicola", "Paul", "Peter", "Rachel", "Richard", "Robert",
	"Ruth", "Sally", "Sam", "Sarah", "Simon", "Sophie", "Stephen", "Steve",
	"Susan", "Thomas", "Tony", "Tracy", "Victoria", "Wendy", "William", "Zoe",
}

const realInitials = "ABCDEFGHIJKLMNOPRSTUVWY"
