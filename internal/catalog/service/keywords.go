package service

// Keyword tables used by the product ranker. These live in code rather
// than in the spreadsheet so a catalog edit cannot change ranking
// behavior.

// petKeywords identifies which pet a product row is for.
var petKeywords = map[string][]string{
	"perro":   {"perro", "perros", "can", "canino", "canine", "dog", "dogs", "cachorro", "cachorros", "puppy", "puppies", "lomito"},
	"gato":    {"gato", "gatos", "felino", "feline", "cat", "cats", "gatito", "gatitos", "michi", "minino", "kitten"},
	"hamster": {"hamster", "hámster", "roedor", "roedores", "cobayo", "cobaya", "cuyo", "jerbo", "chinchilla", "raton", "ratón"},
	"conejo":  {"conejo", "conejos", "conejito", "bunny", "rabbit"},
	"ave":     {"ave", "aves", "pajaro", "pájaro", "perico", "periquito", "canario", "loro", "bird", "birds"},
	"pez":     {"pez", "peces", "acuario", "pecera", "goldfish", "betta", "fish", "tropical"},
}

// petAliases normalizes what the customer says to a canonical pet type.
var petAliases = map[string]string{
	"roedor":     "hamster",
	"cobayo":     "hamster",
	"cuyo":       "hamster",
	"chinchilla": "hamster",
	"conejito":   "conejo",
	"bunny":      "conejo",
	"pajaro":     "ave",
	"pájaro":     "ave",
	"loro":       "ave",
	"periquito":  "ave",
	"canario":    "ave",
	"acuario":    "pez",
	"pecera":     "pez",
}

// petBrands maps pet types to brands whose products rarely name the pet
// in the description.
var petBrands = map[string][]string{
	"perro": {"pro plan", "royal canin", "pedigree", "purina", "eukanuba", "hills", "diamond",
		"taste of the wild", "orijen", "acana", "blue buffalo", "instinct", "kong",
		"nufit", "nucan", "ganador", "champ", "optimo", "dog chow"},
	"gato":    {"whiskas", "felix", "sheba", "fancy feast", "friskies", "kit kat", "mirringo", "cat chow"},
	"hamster": {"vitakraft", "versele-laga", "versele", "living world", "kaytee", "oxbow", "supreme", "tiny friends"},
	"conejo":  {"vitakraft", "versele-laga", "versele", "oxbow", "kaytee", "living world", "supreme"},
	"ave":     {"vitakraft", "kaytee", "zupreem", "versele-laga", "versele", "living world"},
	"pez":     {"tetra", "sera", "api", "fluval", "aqueon", "hikari"},
}

// productTypeKeywords expands a query word to its product-type synonyms.
var productTypeKeywords = map[string][]string{
	"comida":    {"alimento", "croqueta", "croquetas", "comida", "food", "pienso", "nutricion"},
	"snack":     {"snack", "snacks", "premio", "premios", "golosina", "treat", "treats", "botanita"},
	"juguete":   {"juguete", "juguetes", "pelota", "toy", "toys", "mordedor"},
	"higiene":   {"shampoo", "jabon", "limpieza", "higiene", "baño", "cepillo"},
	"accesorio": {"collar", "correa", "plato", "comedero", "bebedero", "cama", "casa"},
	"arena":     {"arena", "arenero", "litter"},
	"salud":     {"vitamina", "suplemento", "medicina", "antipulgas", "desparasitante"},
}

// NormalizePetType resolves aliases like "roedor" to their canonical
// pet type. Unknown values pass through unchanged.
func NormalizePetType(petType string) string {
	if canonical, ok := petAliases[petType]; ok {
		return canonical
	}
	return petType
}
