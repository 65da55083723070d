package roster

import (
	"fmt"

	"github.com/five-manager/five-mvp-backend/internal/match"
	"github.com/five-manager/five-mvp-backend/internal/profile"
)

// unknownMemberName 是会员资料缺失时的兜底展示名。
// 名单记录引用的账号理论上总有资料，但资料表属于外部认证服务，做防御处理。
const unknownMemberName = "未知球员"

// ResolveRoster 解析一场比赛的完整候选人集合。
// 它是"谁有资格被投票/谁有资格投票"的唯一权威：
// 有资料关联的名单记录产出会员候选人（键为账号UUID），
// 没有关联的产出散客候选人（键为 guest-<名单记录ID>）。
// 返回顺序与名单加入顺序一致。
func ResolveRoster(matchID uint) ([]Candidate, error) {
	// 1. 确认比赛存在，并读取全部名单记录
	if _, err := match.GetMatchByID(matchID); err != nil {
		return nil, err
	}
	entries, err := match.GetLineup(matchID)
	if err != nil {
		return nil, fmt.Errorf("无法读取比赛名单: %w", err)
	}

	// 2. 一次性取回所有上场会员的资料
	memberIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID != nil {
			memberIDs = append(memberIDs, *entry.UserID)
		}
	}
	profiles, err := profile.GetByIDs(memberIDs)
	if err != nil {
		return nil, fmt.Errorf("无法读取会员资料: %w", err)
	}

	// 3. 按名单顺序拼装候选人
	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID != nil {
			name := unknownMemberName
			if p, ok := profiles[*entry.UserID]; ok {
				name = p.Username
			}
			candidates = append(candidates, Candidate{
				ID:          MemberID(*entry.UserID),
				DisplayName: name,
				IsGuest:     false,
			})
			continue
		}

		name := ""
		if entry.GuestName != nil {
			name = *entry.GuestName
		}
		candidates = append(candidates, Candidate{
			ID:          GuestID(entry.ID),
			DisplayName: name,
			IsGuest:     true,
		})
	}
	return candidates, nil
}
