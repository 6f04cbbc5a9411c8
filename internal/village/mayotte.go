package village

import "github.com/kwezi/villagequest/internal/geo"

// StartVillage is the prefecture of the bundled catalog.
const StartVillage = "mamoudzou"

func c(lat, lon float64) geo.Coordinate {
	return geo.Coordinate{Latitude: lat, Longitude: lon}
}

func quiz(question string, options []string, correct int, explanation string) *Quiz {
	return &Quiz{Question: question, Options: options, CorrectIndex: correct, Explanation: explanation}
}

var mayotteVillages = []Village{
	{ID: "mamoudzou", Coordinates: c(-12.7806, 45.2278), Kind: KindPrefecture, Meta: Meta{
		Name: "Mamoudzou", Shimaore: "Mamoudzou",
		Description: "Chef-lieu de Mayotte, au bord du lagon face à Petite-Terre.",
		FunFact:     "Le marché couvert de Mamoudzou vend des ylang-ylang, des mangues et du poisson frais.",
		Quiz:        quiz("Comment dit-on « bonjour » en shimaoré ?", []string{"Jéjé", "Marahaba", "Kwaheri"}, 0, "« Jéjé » est la salutation de tous les jours."),
	}},
	{ID: "koungou", Coordinates: c(-12.7336, 45.2042), Kind: KindCommune, Meta: Meta{
		Name:        "Koungou",
		Description: "Grande commune du nord-est, entre collines et mangrove.",
		Quiz:        quiz("Comment dit-on « merci » en shimaoré ?", []string{"Jéjé", "Marahaba", "Maji"}, 1, "On remercie avec « Marahaba »."),
	}},
	{ID: "dzaoudzi", Coordinates: c(-12.7878, 45.2817), Kind: KindCommune, Meta: Meta{
		Name:        "Dzaoudzi",
		Description: "Sur le Rocher de Petite-Terre, ancienne capitale reliée par la barge.",
		FunFact:     "La barge traverse le lagon entre Mamoudzou et Dzaoudzi depuis des décennies.",
		Quiz:        quiz("Comment dit-on « l'eau » en shimaoré ?", []string{"Rano", "Maji", "Moto"}, 1, "« Maji » en shimaoré, « rano » en kibouchi."),
	}},
	{ID: "pamandzi", Coordinates: c(-12.7964, 45.2794), Kind: KindCommune, Meta: Meta{
		Name:        "Pamandzi",
		Description: "Commune de Petite-Terre où se trouve l'aéroport.",
		Quiz:        quiz("Comment dit-on « le poisson » en shimaoré ?", []string{"Fi", "Paha", "Mbwa"}, 0, "Le poisson se dit « fi »."),
	}},
	{ID: "dembeni", Coordinates: c(-12.8394, 45.1853), Kind: KindCommune, Meta: Meta{
		Name:        "Dembéni",
		Description: "Commune de la côte est, siège du centre universitaire.",
		Quiz:        quiz("Comment dit-on « trois » en shimaoré ?", []string{"Moja", "Mbili", "Traru"}, 2, "On compte « moja, mbili, traru »."),
	}},
	{ID: "bandraboua", Coordinates: c(-12.7022, 45.1206), Kind: KindCommune, Meta: Meta{
		Name:        "Bandraboua",
		Description: "Commune du nord, aux plages de sable blanc.",
		Quiz:        quiz("Comment dit-on « la maison » en shimaoré ?", []string{"Nyumba", "Trano", "Jua"}, 0, "« Nyumba » en shimaoré, « trano » en kibouchi."),
	}},
	{ID: "mtsamboro", Coordinates: c(-12.6994, 45.0700), Kind: KindCommune, Meta: Meta{
		Name:        "M'Tsamboro",
		Description: "Pointe nord-ouest, face à l'îlot Mtsamboro.",
		Quiz:        quiz("Comment dit-on « la mer » en shimaoré ?", []string{"Bahari", "Maji", "Fi"}, 0, "La mer se dit « bahari »."),
	}},
	{ID: "acoua", Coordinates: c(-12.7228, 45.0578), Kind: KindCommune, Meta: Meta{
		Name:        "Acoua",
		Description: "Village de pêcheurs de la côte nord-ouest.",
		Quiz:        quiz("Comment dit-on « le chien » en shimaoré ?", []string{"Paha", "Mbwa", "Ngombe"}, 1, "Le chien se dit « mbwa »."),
	}},
	{ID: "mtsangamouji", Coordinates: c(-12.7511, 45.0850), Kind: KindCommune, Meta: Meta{
		Name:        "M'Tsangamouji",
		Description: "Commune de la côte ouest, entre baie et forêt.",
		Quiz:        quiz("Comment dit-on « le père » en shimaoré ?", []string{"Mama", "Baba", "Mwana"}, 1, "Le père se dit « baba »."),
	}},
	{ID: "tsingoni", Coordinates: c(-12.7897, 45.1064), Kind: KindCommune, Meta: Meta{
		Name:        "Tsingoni",
		Description: "Ancienne capitale des sultans, célèbre pour sa mosquée du XVIe siècle.",
	}},
	{ID: "chiconi", Coordinates: c(-12.8339, 45.1319), Kind: KindCommune, Meta: Meta{
		Name: "Chiconi", Kibouchi: "Chiconi",
		Description: "Village où l'on parle kibouchi, sur la baie de Bouéni.",
		Quiz:        quiz("Comment dit-on « merci » en kibouchi ?", []string{"Marahaba", "Misaotra", "Salama"}, 1, "En kibouchi on remercie avec « misaotra »."),
	}},
	{ID: "sada", Coordinates: c(-12.8486, 45.1044), Kind: KindCommune, Meta: Meta{
		Name:        "Sada",
		Description: "Commune de l'ouest, connue pour ses danses traditionnelles.",
		Quiz:        quiz("Comment dit-on « le soleil » en shimaoré ?", []string{"Jua", "Mwezi", "Nyora"}, 0, "Le soleil se dit « jua »."),
	}},
	{ID: "ouangani", Coordinates: c(-12.8475, 45.1381), Kind: KindCommune, Meta: Meta{
		Name: "Ouangani", Kibouchi: "Ouangani",
		Description: "Commune du centre, au pied des collines.",
		Quiz:        quiz("Comment dit-on « la maison » en kibouchi ?", []string{"Nyumba", "Trano", "Rano"}, 1, "La maison se dit « trano » en kibouchi."),
	}},
	{ID: "bandrele", Coordinates: c(-12.9075, 45.1917), Kind: KindCommune, Meta: Meta{
		Name:        "Bandrélé",
		Description: "Commune du sud-est, avec la plage de Sakouli.",
		Quiz:        quiz("Comment dit-on « deux » en shimaoré ?", []string{"Mbili", "Traru", "Moja"}, 0, "Deux se dit « mbili »."),
	}},
	{ID: "chirongui", Coordinates: c(-12.9225, 45.1531), Kind: KindCommune, Meta: Meta{
		Name:        "Chirongui",
		Description: "Commune du sud, près de la mangrove de Malamani.",
		Quiz:        quiz("Comment dit-on « le chat » en shimaoré ?", []string{"Mbwa", "Paha", "Kuku"}, 1, "Le chat se dit « paha »."),
	}},
	{ID: "boueni", Coordinates: c(-12.9025, 45.0761), Kind: KindCommune, Meta: Meta{
		Name:        "Bouéni",
		Description: "Commune du sud-ouest, face aux îlots du lagon.",
		Quiz:        quiz("Comment dit-on « au revoir » en shimaoré ?", []string{"Kwaheri", "Jéjé", "Marahaba"}, 0, "On se quitte avec « kwaheri »."),
	}},
	{ID: "kanikeli", Coordinates: c(-12.9553, 45.1011), Kind: KindCommune, Meta: Meta{
		Name: "Kani-Kéli", Kibouchi: "Kani-Kéli",
		Description: "Commune kibouchi du sud, près de la plage de N'Gouja et ses tortues.",
		Quiz:        quiz("Comment dit-on « un » en kibouchi ?", []string{"Moja", "Raiky", "Roa"}, 1, "Un se dit « raiky » en kibouchi."),
	}},
}

func route(from, to string, km float64, t Transport, req Requirement, via ...geo.Coordinate) Path {
	a, _ := lookup(from)
	b, _ := lookup(to)
	coords := make([]geo.Coordinate, 0, len(via)+2)
	coords = append(coords, a.Coordinates)
	coords = append(coords, via...)
	coords = append(coords, b.Coordinates)
	return Path{From: from, To: to, Coordinates: coords, Distance: km, Transport: t, Requirement: req}
}

func lookup(id string) (Village, bool) {
	for _, v := range mayotteVillages {
		if v.ID == id {
			return v, true
		}
	}
	return Village{}, false
}

func visit(id string) Requirement     { return Requirement{Type: RequireVisit, Village: id} }
func visitCount(n int) Requirement    { return Requirement{Type: RequireVisitCount, Count: n} }
func quizSuccesses(n int) Requirement { return Requirement{Type: RequireQuizSuccessCount, Count: n} }

func mayottePaths() []Path {
	return []Path{
		// Leaving Mamoudzou requires answering its quiz first.
		route("mamoudzou", "koungou", 7.2, TransportRoute, quizSuccesses(1), c(-12.7580, 45.2190)),
		route("mamoudzou", "dembeni", 9.8, TransportRoute, quizSuccesses(1), c(-12.8120, 45.2110)),
		route("mamoudzou", "dzaoudzi", 6.0, TransportBarge, visitCount(3), c(-12.7840, 45.2550)),
		route("dzaoudzi", "pamandzi", 1.8, TransportRoute, visit("dzaoudzi")),
		route("koungou", "bandraboua", 10.5, TransportRoute, visit("koungou"), c(-12.7100, 45.1650)),
		route("bandraboua", "mtsamboro", 6.4, TransportRoute, visit("bandraboua")),
		route("mtsamboro", "acoua", 3.5, TransportRoute, visit("mtsamboro")),
		route("acoua", "mtsangamouji", 4.6, TransportRoute, visit("acoua")),
		route("mtsangamouji", "tsingoni", 5.8, TransportTrail, visitCount(6), c(-12.7700, 45.0950)),
		route("tsingoni", "chiconi", 5.9, TransportRoute, visit("tsingoni")),
		route("chiconi", "sada", 3.6, TransportRoute, visit("chiconi")),
		route("chiconi", "ouangani", 2.2, TransportTrail, quizSuccesses(4)),
		route("ouangani", "dembeni", 6.4, TransportTrail, visit("ouangani"), c(-12.8430, 45.1620)),
		route("dembeni", "bandrele", 8.9, TransportRoute, visit("dembeni"), c(-12.8750, 45.1900)),
		route("bandrele", "chirongui", 4.7, TransportRoute, visitCount(8)),
		route("sada", "chirongui", 9.6, TransportRoute, quizSuccesses(6), c(-12.8850, 45.1250)),
		route("chirongui", "boueni", 9.1, TransportRoute, visit("chirongui"), c(-12.9150, 45.1150)),
		route("boueni", "kanikeli", 7.3, TransportTrail, visit("boueni"), c(-12.9350, 45.0850)),
	}
}

// Mayotte returns the bundled catalog of the 17 communes of Mayotte.
func Mayotte() *Graph {
	return MustGraph(mayotteVillages, mayottePaths())
}

// Badges returns the achievement catalog.
func Badges() []Badge {
	return []Badge{
		{ID: "premiers_pas", Name: "Premiers pas", Description: "Visite ton premier village.", Requirement: visitCount(2), Icon: "footprints"},
		{ID: "explorateur", Name: "Explorateur", Description: "Visite 5 villages.", Requirement: visitCount(5), Icon: "compass"},
		{ID: "grand_voyageur", Name: "Grand voyageur", Description: "Visite 10 villages.", Requirement: visitCount(10), Icon: "map"},
		{ID: "apprenti", Name: "Apprenti", Description: "Réponds à 3 quiz.", Requirement: quizSuccesses(3), Icon: "book"},
		{ID: "savant", Name: "Savant", Description: "Réponds à 10 quiz.", Requirement: quizSuccesses(10), Icon: "owl"},
		{ID: "tour_de_mayotte", Name: "Tour de Mayotte", Description: "Visite tous les villages de l'île.", Requirement: Requirement{Type: RequireVisitAll}, Icon: "island"},
	}
}
