package vote

import (
	"gorm.io/gorm"
)

// Ballot 定义了一位投票者为一场比赛提交的一整份排名（选票批次）。
// (MatchID, VoterID) 上的复合唯一索引是"一人一场只投一次"的唯一权威：
// 先查后插在并发下有竞态，只有存储层约束能保证并发重复提交恰好一个成功。
type Ballot struct {
	gorm.Model

	// MatchID 是所属比赛的ID
	MatchID uint `gorm:"uniqueIndex:idx_ballot_match_voter" json:"match_id"`

	// VoterID 是投票者标识：会员的账号UUID，或 anon- 开头的匿名标识
	VoterID string `gorm:"uniqueIndex:idx_ballot_match_voter;type:varchar(64)" json:"voter_id"`
}

// Vote 定义了单条计分记录：一份排名中的一个名次折算出的分值。
// 记录只增不改不删，仅在整场比赛被删除时级联清理。
type Vote struct {
	gorm.Model

	// BallotID 是所属选票批次的ID
	// 与TargetID的复合唯一索引保证一份排名不会给同一候选人计两次分
	BallotID uint `gorm:"uniqueIndex:idx_vote_ballot_target" json:"-"`

	// MatchID 冗余存储所属比赛ID，用于聚合查询与级联删除
	MatchID uint `gorm:"index" json:"match_id"`

	// VoterID 冗余存储投票者标识
	VoterID string `gorm:"type:varchar(64)" json:"voter_id"`

	// TargetID 是被投票候选人的标识（会员UUID或 guest-<名单记录ID>）
	TargetID string `gorm:"uniqueIndex:idx_vote_ballot_target;type:varchar(64)" json:"target_id"`

	// Rating 是该名次折算出的分值，范围1-10
	Rating int `json:"rating"`
}
