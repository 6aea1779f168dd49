package scorer

import (
	"context"

	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/domain"
)

const (
	peerBonus = 0.10

	// PeerReason repeats once per peer that favorited an item, so the
	// repetition count in the fused reason list mirrors the peer count.
	PeerReason = "liked by users with similar preferences"
)

// PeerScorer accumulates affinity from the favorites of similar users.
type PeerScorer struct {
	social database.SocialRepository
	cap    int
}

// NewPeerScorer creates a peer-affinity scorer looking up at most peerCap
// similar users per request.
func NewPeerScorer(social database.SocialRepository, peerCap int) *PeerScorer {
	return &PeerScorer{social: social, cap: peerCap}
}

func (s *PeerScorer) Name() string { return "peer_affinity" }

func (s *PeerScorer) Score(ctx context.Context, _ []domain.CatalogItem, rc *domain.RecommendationContext) ([]domain.PartialScore, error) {
	if rc == nil || rc.UserID == "" {
		return nil, nil
	}

	peers, err := s.social.FindSimilarUsers(ctx, rc.UserID, s.cap)
	if err != nil {
		return nil, err
	}

	scores := map[string]*domain.PartialScore{}
	var order []string
	for _, peer := range peers {
		favorites, err := s.social.GetFavorites(ctx, peer)
		if err != nil {
			return nil, err
		}
		// +0.10 per distinct peer; a peer favoriting an item twice is
		// impossible at the store level, so no in-peer dedup needed.
		for _, itemID := range favorites {
			ps, ok := scores[itemID]
			if !ok {
				ps = &domain.PartialScore{ItemID: itemID}
				scores[itemID] = ps
				order = append(order, itemID)
			}
			ps.Score += peerBonus
			ps.Reasons = append(ps.Reasons, PeerReason)
		}
	}

	out := make([]domain.PartialScore, 0, len(order))
	for _, itemID := range order {
		ps := scores[itemID]
		ps.Confidence = domain.ConfidenceFromScore(ps.Score)
		out = append(out, *ps)
	}
	return out, nil
}
