package matching

// Static lookup tables for the Kinshasa retail market. Loaded once at
// startup; treated as read-only everywhere.

// knownBrands is an ordered list of brand names seen on local receipts.
// Matching is on word boundaries against the normalized name and the
// first hit wins, so multi-word entries must come before any single-word
// entry they contain.
var knownBrands = []string{
	"coca cola",
	"blue band",
	"top tea",
	"canadian pure",
	"fanta",
	"sprite",
	"primus",
	"skol",
	"tembo",
	"castel",
	"bralima",
	"bracongo",
	"danone",
	"nestle",
	"nido",
	"cowbell",
	"peak",
	"dano",
	"mamba",
	"omo",
	"ariel",
	"sunlight",
	"savon de marseille",
	"colgate",
	"pampers",
	"huggies",
	"maggi",
	"knorr",
	"jumbo",
	"kotanyi",
	"lipton",
	"vital",
	"swissta",
	"simba",
	"azam",
	"brookside",
}

// unitSynonyms maps receipt unit spellings (French, English, common
// abbreviations) to the canonical unit set.
var unitSynonyms = map[string]string{
	"kg":         "kg",
	"kilo":       "kg",
	"kilos":      "kg",
	"kilogramme": "kg",
	"g":          "g",
	"gr":         "g",
	"gramme":     "g",
	"grammes":    "g",
	"l":          "l",
	"ltr":        "l",
	"lt":         "l",
	"litre":      "l",
	"litres":     "l",
	"ml":         "ml",
	"cl":         "cl",
	"pc":         "pc",
	"pcs":        "pc",
	"piece":      "pc",
	"pieces":     "pc",
	"pce":        "pc",
	"btl":        "btl",
	"bouteille":  "btl",
	"bouteilles": "btl",
	"sachet":     "sachet",
	"sachets":    "sachet",
	"sac":        "sachet",
	"carton":     "carton",
	"ctn":        "carton",
	"paquet":     "pack",
	"pqt":        "pack",
	"pack":       "pack",
	"boite":      "can",
	"bte":        "can",
	"can":        "can",
	"rouleau":    "roll",
	"roll":       "roll",
}

// categoryEntry pairs a keyword with its category. Kept as an ordered
// slice, not a map: the first word-boundary hit in table order wins.
type categoryEntry struct {
	keyword  string
	category string
}

// categoryKeywords covers French, English and Lingala product words.
var categoryKeywords = []categoryEntry{
	// Fruits
	{"plantain", "fruits"},
	{"makemba", "fruits"},
	{"banane", "fruits"},
	{"banana", "fruits"},
	{"mangue", "fruits"},
	{"mango", "fruits"},
	{"ananas", "fruits"},
	{"pineapple", "fruits"},
	{"orange", "fruits"},
	{"pomme", "fruits"},
	{"apple", "fruits"},
	{"avocat", "fruits"},
	{"avocado", "fruits"},
	{"papaye", "fruits"},
	{"citron", "fruits"},
	{"lemon", "fruits"},
	{"pasteque", "fruits"},
	// Vegetables
	{"tomate", "vegetables"},
	{"tomato", "vegetables"},
	{"oignon", "vegetables"},
	{"onion", "vegetables"},
	{"ail", "vegetables"},
	{"garlic", "vegetables"},
	{"carotte", "vegetables"},
	{"carrot", "vegetables"},
	{"manioc", "vegetables"},
	{"cassava", "vegetables"},
	{"kwanga", "vegetables"},
	{"fufu", "vegetables"},
	{"chou", "vegetables"},
	{"cabbage", "vegetables"},
	{"epinard", "vegetables"},
	{"spinach", "vegetables"},
	{"ndunda", "vegetables"},
	{"pondu", "vegetables"},
	{"gombo", "vegetables"},
	{"okra", "vegetables"},
	{"aubergine", "vegetables"},
	{"legume", "vegetables"},
	// Proteins
	{"poulet", "proteins"},
	{"chicken", "proteins"},
	{"soso", "proteins"},
	{"boeuf", "proteins"},
	{"beef", "proteins"},
	{"nyama", "proteins"},
	{"chevre", "proteins"},
	{"ntaba", "proteins"},
	{"poisson", "proteins"},
	{"fish", "proteins"},
	{"mbisi", "proteins"},
	{"makayabu", "proteins"},
	{"tilapia", "proteins"},
	{"sardine", "proteins"},
	{"oeuf", "proteins"},
	{"egg", "proteins"},
	{"maki", "proteins"},
	// Dairy
	{"lait", "dairy"},
	{"milk", "dairy"},
	{"miliki", "dairy"},
	{"yaourt", "dairy"},
	{"yogurt", "dairy"},
	{"yoghurt", "dairy"},
	{"beurre", "dairy"},
	{"butter", "dairy"},
	{"fromage", "dairy"},
	{"cheese", "dairy"},
	// Grains
	{"riz", "grains"},
	{"rice", "grains"},
	{"loso", "grains"},
	{"farine", "grains"},
	{"flour", "grains"},
	{"pain", "grains"},
	{"bread", "grains"},
	{"mapa", "grains"},
	{"pates", "grains"},
	{"pasta", "grains"},
	{"spaghetti", "grains"},
	{"macaroni", "grains"},
	{"mais", "grains"},
	{"corn", "grains"},
	{"haricot", "grains"},
	{"madesu", "grains"},
	{"beans", "grains"},
	{"arachide", "grains"},
	{"nguba", "grains"},
	{"peanut", "grains"},
	// Oils and condiments
	{"huile", "oils"},
	{"mafuta", "oils"},
	{"oil", "oils"},
	{"sel", "condiments"},
	{"mungwa", "condiments"},
	{"salt", "condiments"},
	{"sucre", "condiments"},
	{"sukali", "condiments"},
	{"sugar", "condiments"},
	{"concentre", "condiments"},
	{"mayonnaise", "condiments"},
	{"bouillon", "condiments"},
	{"cube", "condiments"},
	// Beverages
	{"eau", "beverages"},
	{"mai", "beverages"},
	{"water", "beverages"},
	{"biere", "beverages"},
	{"beer", "beverages"},
	{"masanga", "beverages"},
	{"soda", "beverages"},
	{"jus", "beverages"},
	{"juice", "beverages"},
	{"cafe", "beverages"},
	{"coffee", "beverages"},
	{"the", "beverages"},
	{"tea", "beverages"},
	// Hygiene and baby
	{"savon", "hygiene"},
	{"soap", "hygiene"},
	{"detergent", "hygiene"},
	{"dentifrice", "hygiene"},
	{"toothpaste", "hygiene"},
	{"papier toilette", "hygiene"},
	{"toilet", "hygiene"},
	{"couche", "baby"},
	{"diaper", "baby"},
}

// abbreviations expands shorthand commonly printed on Kinshasa receipts.
// Keys are in normalized form. Two-word entries are tried before single
// words when expanding token by token.
var abbreviations = map[string]string{
	// French shorthand
	"bnn":      "banane",
	"bnn pltn": "banane plantain",
	"pltn":     "plantain",
	"pmdt":     "pomme de terre",
	"pdt":      "pomme de terre",
	"tom":      "tomate",
	"ogn":      "oignon",
	"crt":      "carotte",
	"poul":     "poulet",
	"pssn":     "poisson",
	"hle":      "huile",
	"hle plm":  "huile de palme",
	"hle vgt":  "huile vegetale",
	"fne":      "farine",
	"scr":      "sucre",
	"lt":       "lait",
	"eau min":  "eau minerale",
	"jus frts": "jus de fruits",
	"svn":      "savon",
	"dtrgt":    "detergent",
	"cch":      "couches",
	"pp tlt":   "papier toilette",
	"conc tom": "concentre de tomate",
	"pte tom":  "pate de tomate",
	// English shorthand
	"veg oil":  "vegetable oil",
	"plm oil":  "palm oil",
	"tom pst":  "tomato paste",
	"grndnts":  "groundnuts",
	"pnts":     "peanuts",
	"chkn":     "chicken",
	"fsh":      "fish",
	"wtr":      "water",
	"min wtr":  "mineral water",
	"tlt ppr":  "toilet paper",
}
