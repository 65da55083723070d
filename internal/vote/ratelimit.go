package vote

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/five-manager/five-mvp-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// SubmitCompensator 封装了一次IP计数增加操作的回滚逻辑。
// 它被设计为在提交流程失败时，通过defer语句安全地执行补偿。
type SubmitCompensator struct {
	ip        string
	member    string
	committed bool
}

const (
	// ipSubmitKeyPrefix 是Redis中有序集合的键名前缀
	ipSubmitKeyPrefix = "ip_submits:"
	// ipSubmitWindow 定义了IP提交计数的时间窗口
	ipSubmitWindow = time.Hour
	// ipSubmitTTL 是每个IP记录在Redis中的生存时间，比窗口稍长以作缓冲
	ipSubmitTTL = 70 * time.Minute
	// MaxSubmitsPerWindow 是单个IP在窗口内允许的排名提交次数。
	// 一个IP后面可能是同一球队的多名投票者，阈值放得比较宽。
	MaxSubmitsPerWindow = 30
)

// generateUniqueID 根据给定的时间生成一个16字节的、抗冲突的成员ID。
// 结构: [ 8字节纳秒时间戳 (Big Endian) | 8字节随机数 ]
func generateUniqueID(t time.Time) (string, error) {
	b := make([]byte, 16)

	binary.BigEndian.PutUint64(b[0:8], uint64(t.UnixNano()))
	if _, err := rand.Read(b[8:16]); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// IncrementSubmitCount 在Redis中为一个IP原子地记录一次新的排名提交，
// 并返回其在过去ipSubmitWindow内的总提交数。
// 返回一个补偿句柄，用于在提交流程失败时回滚此次计数增加。
// Redis不可用时返回0和nil句柄且无错误，频率限制静默降级。
func IncrementSubmitCount(ip string, submitTime time.Time) (int64, *SubmitCompensator, error) {
	if !database.IsRedisHealthy() {
		return 0, nil, nil
	}

	if ip == "" || net.ParseIP(ip) == nil {
		return 0, nil, errors.New("提交请求缺少有效IP")
	}

	key := ipSubmitKeyPrefix + ip
	// 1. 计算窗口前的时间戳，作为清理的边界
	minTimestamp := float64(submitTime.Add(-ipSubmitWindow).UnixMicro())

	// 2. 生成本次提交的Score和Member
	scoreTime := float64(submitTime.UnixMicro())
	memberID, err := generateUniqueID(submitTime)
	if err != nil {
		return 0, nil, fmt.Errorf("生成 memberID 失败: %w", err)
	}

	// 3. 使用Redis事务(TxPipeline)来保证所有操作的原子性
	pipe := database.RDB.TxPipeline()
	pipe.ZRemRangeByScore(database.Ctx, key, "-inf", fmt.Sprintf("(%f", minTimestamp))
	pipe.ZAdd(database.Ctx, key, redis.Z{Score: scoreTime, Member: memberID})
	pipe.Expire(database.Ctx, key, ipSubmitTTL)
	countCmd := pipe.ZCard(database.Ctx, key)

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return 0, nil, fmt.Errorf("执行IP计数事务失败: %w", err)
	}

	count, err := countCmd.Result()
	if err != nil {
		database.RDB.ZRem(database.Ctx, key, memberID)
		return 0, nil, fmt.Errorf("获取IP计数结果失败: %w", err)
	}

	return count, &SubmitCompensator{ip: ip, member: memberID}, nil
}

// Commit 标记上层业务事务已成功，阻止后续的回滚操作。
func (c *SubmitCompensator) Commit() {
	if c == nil {
		return
	}
	c.committed = true
}

// RollbackUnlessCommitted 是一个用于defer调用的方法。
// 如果Commit()没有被调用，它会自动执行对Redis的补偿操作。
// 这样被拒绝的提交不会消耗投票者的频率配额。
func (c *SubmitCompensator) RollbackUnlessCommitted() {
	if c == nil || c.committed {
		return
	}

	key := ipSubmitKeyPrefix + c.ip
	if err := database.RDB.ZRem(database.Ctx, key, c.member).Err(); err != nil {
		fmt.Printf("警告: IP提交计数补偿操作失败! IP: %s, 错误: %v\n", c.ip, err)
	}
}
