package match

import (
	"time"

	"gorm.io/gorm"
)

// 球队标识的枚举值
const (
	TeamA = "A"
	TeamB = "B"
)

// MatchStatus 定义了比赛状态的枚举类型
type MatchStatus string

const (
	// StatusScheduled 表示比赛已创建、尚未进行
	StatusScheduled MatchStatus = "scheduled"
	// StatusFinished 表示比赛已结束
	StatusFinished MatchStatus = "finished"
)

// Match 定义了一场比赛的数据结构
type Match struct {
	gorm.Model

	// Date 是比赛的开球时间
	Date time.Time `json:"date"`

	// Location 是比赛场地，例如 "UrbanSoccer"
	Location string `json:"location"`

	// Status 记录比赛状态
	Status MatchStatus `json:"status"`

	// ScoreTeamA / ScoreTeamB 是两队的最终比分
	ScoreTeamA int `json:"score_team_a"`
	ScoreTeamB int `json:"score_team_b"`

	// CreatedBy 是创建者（比赛管理员）的账号UUID
	CreatedBy string `gorm:"index;type:varchar(36)" json:"created_by"`

	// JoinToken 是不可猜测的邀请令牌，凭它可以加入比赛名单
	JoinToken string `gorm:"uniqueIndex;type:varchar(36)" json:"-"`
}

// LineupEntry 定义了比赛名单中的一条上场记录。
// UserID 与 GuestName 二选一：有账号的会员记前者，临时拉来的散客记后者。
type LineupEntry struct {
	gorm.Model

	// MatchID 是所属比赛的ID
	MatchID uint `gorm:"index" json:"match_id"`

	// Team 是球员所属的队伍: "A" 或 "B"
	Team string `gorm:"type:varchar(1)" json:"team"`

	// UserID 是会员的账号UUID；散客为nil
	UserID *string `gorm:"index;type:varchar(36)" json:"user_id"`

	// GuestName 是散客的名字；会员为nil
	GuestName *string `json:"guest_name"`
}
