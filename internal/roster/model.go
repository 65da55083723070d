package roster

import (
	"fmt"
)

// IdentityKind 区分候选人标识所属的命名空间
type IdentityKind string

const (
	// KindMember 表示有账号的注册会员，标识在所有比赛间稳定
	KindMember IdentityKind = "member"
	// KindGuest 表示没有账号的散客，标识只在一条名单记录的生命周期内有效
	KindGuest IdentityKind = "guest"
)

// CandidateID 是候选人的带标签标识。
// 两个命名空间（会员UUID / 名单记录派生的散客ID）在类型层面分开，
// 而不是靠字符串前缀去猜，避免解析歧义与碰撞。
type CandidateID struct {
	Kind IdentityKind

	// memberID 仅在Kind为KindMember时有效
	memberID string

	// entryID 仅在Kind为KindGuest时有效
	entryID uint
}

// MemberID 构造一个会员候选人标识。
func MemberID(accountID string) CandidateID {
	return CandidateID{Kind: KindMember, memberID: accountID}
}

// GuestID 从名单记录ID派生一个散客候选人标识。
// 同一份名单上的两名散客永远不会碰撞。
func GuestID(entryID uint) CandidateID {
	return CandidateID{Kind: KindGuest, entryID: entryID}
}

// String 返回候选人标识的持久化/传输形式。
// 会员是其账号UUID；散客是 guest-<名单记录ID>。
func (id CandidateID) String() string {
	if id.Kind == KindGuest {
		return fmt.Sprintf("guest-%d", id.entryID)
	}
	return id.memberID
}

// Candidate 是一名可被投票的候选人。
// 它在每次名单解析时即时拼装，不单独持久化。
type Candidate struct {
	ID          CandidateID
	DisplayName string

	// IsGuest 为true的散客没有账号，不能作为投票者，但可以被投票
	IsGuest bool
}
