package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// Scoring weights. Shortlisting and subscription boosts deliberately outweigh
// a perfect zip+category match so explicit customer choice and paid priority
// dominate organic matching.
const (
	ratingScoreCap      = 50.0
	reviewCountScoreCap = 20.0
	categoryMatchScore  = 10.0
	subcategoryScore    = 10.0
	zipMatchScore       = 5.0
	shortlistScore      = 20.0

	maxAlternates = 3
)

// RankedCandidate is one scored business/provider pairing.
type RankedCandidate struct {
	Business  entities.Business
	Profile   *entities.ProviderProfile
	Score     float64
	Priority  bool
	Shortlist bool
}

// AssignmentResult is the ranking outcome: one primary and up to three
// alternates. Both may be empty; that is a valid business outcome.
type AssignmentResult struct {
	Primary    *RankedCandidate
	Alternates []RankedCandidate
}

// IRankingUseCase scores candidate providers for a request and records the
// resulting leads.
type IRankingUseCase interface {
	AssignProviders(ctx context.Context, req *entities.ServiceRequest) (*AssignmentResult, error)
}

type RankingUseCase struct {
	businesses interfaces.IBusinessRepository
	profiles   interfaces.IProviderProfileRepository
	leads      interfaces.ILeadRepository
	requests   interfaces.IServiceRequestRepository
	benefits   interfaces.ISubscriptionBenefits
}

var _ IRankingUseCase = (*RankingUseCase)(nil)

func NewRankingUseCase(
	businesses interfaces.IBusinessRepository,
	profiles interfaces.IProviderProfileRepository,
	leads interfaces.ILeadRepository,
	requests interfaces.IServiceRequestRepository,
	benefits interfaces.ISubscriptionBenefits,
) *RankingUseCase {
	return &RankingUseCase{
		businesses: businesses,
		profiles:   profiles,
		leads:      leads,
		requests:   requests,
		benefits:   benefits,
	}
}

// AssignProviders ranks candidates for req, persists one lead per selected
// candidate and promotes the request to LEAD_ASSIGNED. With no candidates the
// request is left untouched and an empty result is returned.
func (u *RankingUseCase) AssignProviders(ctx context.Context, req *entities.ServiceRequest) (*AssignmentResult, error) {
	candidates, err := u.collectCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		rc, ok := u.scoreCandidate(ctx, req, c)
		if !ok {
			continue
		}
		ranked = append(ranked, rc)
	}

	// Priority candidates always precede non-priority ones; within each group
	// higher scores first. SliceStable keeps the candidate-collection order as
	// the tie-breaker so output is deterministic for a fixed input set.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority
		}
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) == 0 {
		log.Info().Str("request_id", req.ID.String()).Msg("ranking.empty")
		return &AssignmentResult{}, nil
	}

	result := &AssignmentResult{Primary: &ranked[0]}
	if len(ranked) > 1 {
		end := len(ranked)
		if end > 1+maxAlternates {
			end = 1 + maxAlternates
		}
		result.Alternates = ranked[1:end]
	}

	if err := u.recordAssignment(ctx, req, result); err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("primary_business_id", result.Primary.Business.ID.String()).
		Int("alternates", len(result.Alternates)).
		Msg("lead.assigned")

	return result, nil
}

type candidate struct {
	business  entities.Business
	shortlist bool
}

// collectCandidates unions the organic match set with the customer shortlist,
// deduplicated by business id.
func (u *RankingUseCase) collectCandidates(ctx context.Context, req *entities.ServiceRequest) ([]candidate, error) {
	matched, err := u.businesses.ListActiveByCategoryAndZip(ctx, req.Category, req.ZipCode)
	if err != nil {
		return nil, err
	}

	var shortlisted []entities.Business
	if ids := req.Shortlist(); len(ids) > 0 {
		shortlisted, err = u.businesses.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[uuid.UUID]int, len(matched)+len(shortlisted))
	out := make([]candidate, 0, len(matched)+len(shortlisted))
	for _, b := range matched {
		seen[b.ID] = len(out)
		out = append(out, candidate{business: b})
	}
	for _, b := range shortlisted {
		if i, ok := seen[b.ID]; ok {
			out[i].shortlist = true
			continue
		}
		seen[b.ID] = len(out)
		out = append(out, candidate{business: b, shortlist: true})
	}
	return out, nil
}

// scoreCandidate applies the exclusion guards and computes the ranking score.
// It returns ok=false when the candidate must be skipped.
func (u *RankingUseCase) scoreCandidate(ctx context.Context, req *entities.ServiceRequest, c candidate) (RankedCandidate, bool) {
	if c.business.OwnerID == nil {
		return RankedCandidate{}, false
	}
	// Self-assignment guard: a customer never gets their own business.
	if *c.business.OwnerID == req.CustomerID {
		return RankedCandidate{}, false
	}

	profile, err := u.profiles.GetOrCreateByUserID(ctx, *c.business.OwnerID)
	if err != nil {
		log.Warn().Err(err).
			Str("business_id", c.business.ID.String()).
			Msg("ranking: provider profile provisioning failed; candidate skipped")
		return RankedCandidate{}, false
	}

	score := profile.RatingAverage * 10
	if score > ratingScoreCap {
		score = ratingScoreCap
	}
	reviewScore := float64(profile.RatingCount) / 10
	if reviewScore > reviewCountScoreCap {
		reviewScore = reviewCountScoreCap
	}
	score += reviewScore

	if c.business.Category == req.Category {
		score += categoryMatchScore
	}
	if req.Subcategory != "" && c.business.Subcategory == req.Subcategory {
		score += subcategoryScore
	}
	if c.business.ZipCode == req.ZipCode {
		score += zipMatchScore
	}
	if c.shortlist {
		score += shortlistScore
	}

	priority := false
	benefits, err := u.benefits.ResolveForUser(ctx, *c.business.OwnerID)
	if err != nil {
		// Benefits are an enhancement, not a prerequisite: degrade to zero
		// boost and keep scoring the remaining candidates.
		log.Warn().Err(err).
			Str("user_id", c.business.OwnerID.String()).
			Msg("ranking: benefits lookup failed; scoring without boost")
	} else {
		score += benefits.PriorityBoost
		priority = benefits.Featured
	}

	return RankedCandidate{
		Business:  c.business,
		Profile:   profile,
		Score:     score,
		Priority:  priority,
		Shortlist: c.shortlist,
	}, true
}

// recordAssignment writes the leads and promotes the request.
func (u *RankingUseCase) recordAssignment(ctx context.Context, req *entities.ServiceRequest, result *AssignmentResult) error {
	create := func(rc *RankedCandidate, role entities.LeadRole, rank int) error {
		lead := &entities.Lead{
			CustomerID:     req.CustomerID,
			BusinessID:     rc.Business.ID,
			ProviderUserID: *rc.Business.OwnerID,
			Category:       req.Category,
			ZipCode:        req.ZipCode,
			Description:    req.Description,
			Status:         entities.LeadStatusRouted,
			Metadata: entities.LeadMetadata{
				ServiceRequestID: req.ID.String(),
				Role:             role,
				Rank:             rank,
				Score:            rc.Score,
			}.ToJSON(),
		}
		return u.leads.Create(ctx, lead)
	}

	if err := create(result.Primary, entities.LeadRolePrimary, 0); err != nil {
		return err
	}
	for i := range result.Alternates {
		if err := create(&result.Alternates[i], entities.LeadRoleAlternate, i+1); err != nil {
			return err
		}
	}

	req.PrimaryProviderID = &result.Primary.Profile.ID
	req.Status = entities.RequestStatusLeadAssigned
	return u.requests.Update(ctx, req)
}
