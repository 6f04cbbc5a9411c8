package game

import "github.com/kwezi/villagequest/internal/village"

// Score awards.
const (
	VisitBonus       = 100
	UnlockBonus      = 50
	QuizSuccessBonus = 50
	QuizAttemptBonus = 10
	BadgeBonus       = 200
)

// Satisfied reports whether r holds for p.
//
// quizSuccessCount counts completed quiz attempts, successful or not.
func Satisfied(r village.Requirement, p Progress, g *village.Graph) bool {
	switch r.Type {
	case village.RequireVisit:
		return p.HasVisited(r.Village)
	case village.RequireVisitCount:
		return len(p.VisitedVillages) >= r.Count
	case village.RequireQuizSuccessCount:
		return len(p.CompletedQuiz) >= r.Count
	case village.RequireVisitAll:
		for _, v := range g.Villages() {
			if !p.HasVisited(v.ID) {
				return false
			}
		}
		return true
	}
	return false
}

// PendingUnlocks returns, in path order, the villages whose incoming path
// requirement holds but which p has not unlocked yet. It does not mutate p.
func PendingUnlocks(p Progress, g *village.Graph) []string {
	var out []string
	for _, path := range g.Paths() {
		if p.IsUnlocked(path.To) || !Satisfied(path.Requirement, p, g) {
			continue
		}
		out = appendMissing(out, path.To)
	}
	return out
}

// Reconcile unlocks every village reachable by a satisfied path and awards
// UnlockBonus for each one. It returns the newly unlocked ids.
//
// One pass reaches the fixed point: requirements only read the visited and
// completed-quiz sets, and unlocking changes neither.
func Reconcile(p *Progress, g *village.Graph) []string {
	unlocked := PendingUnlocks(*p, g)
	for _, id := range unlocked {
		p.UnlockedVillages = append(p.UnlockedVillages, id)
		p.Score += UnlockBonus
	}
	return unlocked
}

// PendingBadges returns the catalog badges p qualifies for but lacks.
func PendingBadges(p Progress, catalog []village.Badge, g *village.Graph) []string {
	var out []string
	for _, b := range catalog {
		if p.HasBadge(b.ID) || !Satisfied(b.Requirement, p, g) {
			continue
		}
		out = appendMissing(out, b.ID)
	}
	return out
}

// AwardBadges grants each qualifying badge once, adding BadgeBonus per
// badge, and returns the granted ids.
func AwardBadges(p *Progress, catalog []village.Badge, g *village.Graph) []string {
	granted := PendingBadges(*p, catalog, g)
	for _, id := range granted {
		p.Badges = append(p.Badges, id)
		p.Score += BadgeBonus
	}
	return granted
}
