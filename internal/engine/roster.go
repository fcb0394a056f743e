package engine

import "strings"

type WaifuStats struct {
	Charm    int `json:"charm"`
	Cuteness int `json:"cuteness"`
	Shyness  int `json:"shyness"`
}

type Waifu struct {
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Stats       WaifuStats `json:"stats"`
}

var roster = []Waifu{
	{
		Name:        "Chiffon",
		Image:       "/chiffon.jpg",
		Description: "A gentle cat-girl with pink eyes and blonde hair. Known for her sweet personality and adorable cat ears.",
		Color:       "#f5a9b8",
		Stats:       WaifuStats{Charm: 95, Cuteness: 98, Shyness: 75},
	},
	{
		Name:        "Segawa Emi",
		Image:       "/emisegawa.jpg",
		Description: "A bright and cheerful girl with blonde hair and a signature red ribbon. Her energetic personality lights up any room.",
		Color:       "#ffcc55",
		Stats:       WaifuStats{Charm: 90, Cuteness: 85, Shyness: 40},
	},
	{
		Name:        "Akizuki Kanna",
		Image:       "/kannaakizuki.jpg",
		Description: "An elegant girl with silver-white hair and purple eyes. Often seen enjoying coffee with a calm, sophisticated demeanor.",
		Color:       "#d8bfd8",
		Stats:       WaifuStats{Charm: 92, Cuteness: 88, Shyness: 82},
	},
}

// Roster returns the selectable characters in display order.
func Roster() []Waifu {
	return append([]Waifu(nil), roster...)
}

// LookupWaifu finds a roster entry by name, ignoring case and surrounding space.
func LookupWaifu(name string) (Waifu, bool) {
	name = strings.TrimSpace(name)
	for _, w := range roster {
		if strings.EqualFold(w.Name, name) {
			return w, true
		}
	}
	return Waifu{}, false
}

type Rarity string

const (
	RarityCommon   Rarity = "COMMON"
	RarityUncommon Rarity = "UNCOMMON"
	RarityRare     Rarity = "RARE"
	RarityEpic     Rarity = "EPIC"
)

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
	Bonus       string `json:"bonus"`
	Description string `json:"description"`
	// UseXP is granted each time the item is used.
	UseXP int `json:"useXp"`
}

var inventory = []Item{
	{ID: "pixel-brush", Name: "Pixel Brush", Icon: "🖌️", Rarity: RarityCommon, Bonus: "+5 Art", Description: "The brush behind every pixel masterpiece", UseXP: 10},
	{ID: "game-cartridge", Name: "Game Cartridge", Icon: "💾", Rarity: RarityCommon, Bonus: "+5 Nostalgia", Description: "A dusty cartridge with a classic inside", UseXP: 15},
	{ID: "retro-console", Name: "Retro Console", Icon: "🕹️", Rarity: RarityRare, Bonus: "+10 Fun", Description: "An old console that still boots on the first try", UseXP: 25},
	{ID: "mechanical-keyboard", Name: "Mechanical Keyboard", Icon: "⌨️", Rarity: RarityRare, Bonus: "+10 Coding Speed", Description: "A premium mechanical keyboard with tactile switches for efficient coding"},
	{ID: "game-controller", Name: "Pro Controller", Icon: "🎮", Rarity: RarityCommon, Bonus: "+5 Gaming", Description: "A professional gaming controller with customizable buttons"},
	{ID: "gaming-pc", Name: "Gaming PC", Icon: "💻", Rarity: RarityEpic, Bonus: "+15 Performance", Description: "A high-end gaming PC with RGB lighting and powerful specs"},
	{ID: "dev-manual", Name: "Dev Manual", Icon: "📚", Rarity: RarityUncommon, Bonus: "+8 Coding", Description: "Programming guide with best practices and algorithms", UseXP: 20},
}

func Inventory() []Item {
	return append([]Item(nil), inventory...)
}

func LookupItem(id string) (Item, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, it := range inventory {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
