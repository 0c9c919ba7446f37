package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/models"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// Scoring weights: skill overlap dominates, goal fit and bio fit share
// the rest.
const (
	skillWeight = 0.4
	goalWeight  = 0.3
	bioWeight   = 0.3

	defaultTopN = 5
)

var wordPattern = regexp.MustCompile(`\w+`)

type matcherService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMatcherService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) MatcherService {
	return &matcherService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *matcherService) Recommend(ctx context.Context, menteeID string, req *validator.RecommendRequest) ([]*Candidate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	menteeProfile, err := s.repo.Profile().GetByUserID(ctx, s.db, menteeID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get mentee profile: %w", err)
	}

	// The identity provider filters to active mentors, the matcher never
	// re-checks roles itself.
	mentors, _, err := s.repo.User().ListMentors(ctx, repositories.UserFilters{Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	mentorIDs := make([]string, 0, len(mentors))
	for _, mentor := range mentors {
		if mentor.ID == menteeID {
			continue
		}
		mentorIDs = append(mentorIDs, mentor.ID)
	}

	profiles, err := s.repo.Profile().GetByUserIDs(ctx, s.db, mentorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentor profiles: %w", err)
	}

	candidates := s.Rank(menteeProfile, profiles, topN)

	s.logger.Info("Ranked mentor candidates",
		"mentee_id", menteeID,
		"pool_size", len(profiles),
		"returned", len(candidates))

	return candidates, nil
}

// Rank scores every mentor profile against the mentee and returns the topN
// candidates sorted by descending score. Ties keep input order, so results
// are deterministic for a given pool.
func (s *matcherService) Rank(mentee *models.Profile, mentors []*models.Profile, topN int) []*Candidate {
	menteeSkills := mentee.SkillList()

	candidates := make([]*Candidate, 0, len(mentors))
	for _, mentor := range mentors {
		mentorSkills := mentor.SkillList()

		score := matchScore(mentee, menteeSkills, mentor, mentorSkills)
		candidates = append(candidates, &Candidate{
			MentorID:     mentor.UserID,
			Score:        score,
			SharedSkills: sharedSkills(menteeSkills, mentorSkills),
			Bio:          mentor.Bio,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if topN > 0 && len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// matchScore combines skill overlap, goal fit and bio fit, clamped to
// [0, 1] and rounded to two decimals for determinism.
func matchScore(mentee *models.Profile, menteeSkills []string, mentor *models.Profile, mentorSkills []string) float64 {
	sScore := skillScore(menteeSkills, mentorSkills)
	gScore := textSimilarity(mentee.Goals, mentor.Bio+" "+strings.Join(mentorSkills, " "))
	bScore := textSimilarity(mentee.Bio, mentor.Bio)

	score := skillWeight*sScore + goalWeight*gScore + bioWeight*bScore
	score = math.Min(math.Max(score, 0.0), 1.0)
	return math.Round(score*100) / 100
}

// skillScore is the overlap ratio relative to the mentee's skill set. A
// mentee with no skills scores 0 on every mentor.
func skillScore(menteeSkills, mentorSkills []string) float64 {
	if len(menteeSkills) == 0 {
		return 0.0
	}

	mentorSet := make(map[string]bool, len(mentorSkills))
	for _, skill := range mentorSkills {
		mentorSet[strings.ToLower(skill)] = true
	}

	menteeSet := make(map[string]bool, len(menteeSkills))
	overlap := 0
	for _, skill := range menteeSkills {
		lower := strings.ToLower(skill)
		if menteeSet[lower] {
			continue
		}
		menteeSet[lower] = true
		if mentorSet[lower] {
			overlap++
		}
	}

	return float64(overlap) / float64(len(menteeSet))
}

// textSimilarity is word-overlap relative to the first text. Deliberately
// simple; a stronger embedding-based similarity can replace it without
// changing the Rank contract.
func textSimilarity(textA, textB string) float64 {
	if textA == "" || textB == "" {
		return 0.0
	}

	wordsA := wordSet(textA)
	if len(wordsA) == 0 {
		return 0.0
	}
	wordsB := wordSet(textB)

	overlap := 0
	for word := range wordsA {
		if wordsB[word] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(wordsA))
}

func wordSet(text string) map[string]bool {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

// sharedSkills returns the case-insensitive intersection, lowercased, in
// the mentee's order.
func sharedSkills(menteeSkills, mentorSkills []string) []string {
	mentorSet := make(map[string]bool, len(mentorSkills))
	for _, skill := range mentorSkills {
		mentorSet[strings.ToLower(skill)] = true
	}

	seen := make(map[string]bool)
	shared := make([]string, 0)
	for _, skill := range menteeSkills {
		lower := strings.ToLower(skill)
		if mentorSet[lower] && !seen[lower] {
			shared = append(shared, lower)
			seen[lower] = true
		}
	}
	return shared
}
