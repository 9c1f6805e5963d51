package mockgen

// PoolCard is a candidate card in the demo pool. The pool seeds mock
// scan results and the market snapshot; it shares name vocabulary with
// nothing else.
type PoolCard struct {
	Name        string `json:"name"`
	SetName     string `json:"set_name"`
	SetNumber   string `json:"set_number"`
	Rarity      string `json:"rarity"`
	HP          int    `json:"hp"`
	CardType    string `json:"card_type"`
	ReleaseDate string `json:"release_date"`
}

// cardPool is the fixed candidate pool. The first four are the classic
// demo cards; the rest round out the market feed.
var cardPool = []PoolCard{
	{Name: "Charizard", SetName: "Base Set", SetNumber: "4/102", Rarity: "Holo Rare", HP: 120, CardType: "Fire", ReleaseDate: "1999-01-09"},
	{Name: "Pikachu", SetName: "Base Set", SetNumber: "58/102", Rarity: "Common", HP: 40, CardType: "Lightning", ReleaseDate: "1999-01-09"},
	{Name: "Blastoise", SetName: "Base Set", SetNumber: "2/102", Rarity: "Holo Rare", HP: 100, CardType: "Water", ReleaseDate: "1999-01-09"},
	{Name: "Venusaur", SetName: "Base Set", SetNumber: "15/102", Rarity: "Holo Rare", HP: 100, CardType: "Grass", ReleaseDate: "1999-01-09"},
	{Name: "Alakazam", SetName: "Base Set", SetNumber: "1/102", Rarity: "Holo Rare", HP: 80, CardType: "Psychic", ReleaseDate: "1999-01-09"},
	{Name: "Gyarados", SetName: "Base Set", SetNumber: "6/102", Rarity: "Holo Rare", HP: 100, CardType: "Water", ReleaseDate: "1999-01-09"},
	{Name: "Mewtwo", SetName: "Base Set", SetNumber: "10/102", Rarity: "Holo Rare", HP: 60, CardType: "Psychic", ReleaseDate: "1999-01-09"},
	{Name: "Snorlax", SetName: "Jungle", SetNumber: "11/64", Rarity: "Holo Rare", HP: 90, CardType: "Colorless", ReleaseDate: "1999-06-16"},
	{Name: "Lugia", SetName: "Neo Genesis", SetNumber: "9/111", Rarity: "Holo Rare", HP: 90, CardType: "Colorless", ReleaseDate: "2000-12-16"},
	{Name: "Umbreon", SetName: "Neo Discovery", SetNumber: "13/75", Rarity: "Holo Rare", HP: 70, CardType: "Darkness", ReleaseDate: "2001-06-01"},
	{Name: "Rayquaza", SetName: "EX Deoxys", SetNumber: "97/107", Rarity: "Rare", HP: 100, CardType: "Dragon", ReleaseDate: "2005-02-14"},
	{Name: "Dragonite", SetName: "Fossil", SetNumber: "4/62", Rarity: "Holo Rare", HP: 100, CardType: "Colorless", ReleaseDate: "1999-10-10"},
}

// Pool returns a copy of the candidate pool.
func Pool() []PoolCard {
	out := make([]PoolCard, len(cardPool))
	copy(out, cardPool)
	return out
}

// PickCard draws a random card from the pool.
func (g *Generator) PickCard() PoolCard {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cardPool[g.rng.Intn(len(cardPool))]
}
