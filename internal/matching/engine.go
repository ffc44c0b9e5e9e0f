// Package matching scores how well two users' teaching and learning skills
// complement each other.
package matching

import (
	"math"

	"skillswap/internal/models"
)

// SkillSet holds a user's skill ids split by direction.
type SkillSet struct {
	Teaching map[uint]struct{}
	Learning map[uint]struct{}
}

// NewSkillSet partitions user skills into teaching and learning ids.
// Proficiency and verification do not influence matching.
func NewSkillSet(skills []models.UserSkill) SkillSet {
	set := SkillSet{
		Teaching: make(map[uint]struct{}, len(skills)),
		Learning: make(map[uint]struct{}, len(skills)),
	}
	for _, us := range skills {
		if us.IsTeaching {
			set.Teaching[us.SkillID] = struct{}{}
		} else {
			set.Learning[us.SkillID] = struct{}{}
		}
	}
	return set
}

// Size is the number of distinct entries across both directions.
func (s SkillSet) Size() int {
	return len(s.Teaching) + len(s.Learning)
}

// Overlap counts skills the requester teaches that the candidate wants to
// learn plus skills the requester wants to learn that the candidate teaches.
func Overlap(requester, candidate SkillSet) int {
	n := 0
	for id := range requester.Teaching {
		if _, ok := candidate.Learning[id]; ok {
			n++
		}
	}
	for id := range requester.Learning {
		if _, ok := candidate.Teaching[id]; ok {
			n++
		}
	}
	return n
}

// Score returns the match score in [0,100], relative to the requester's own
// skill count. A requester with no skills scores 0.
func Score(requester, candidate SkillSet) int {
	total := requester.Size()
	if total == 0 {
		return 0
	}
	score := int(math.Round(float64(Overlap(requester, candidate)) / float64(total) * 100))
	return clampInt(score, 0, 100)
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
