package security

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// Hasher 是可替换的单向口令摘要原语。
// 认证服务只依赖这个接口，具体实现由配置决定。
type Hasher interface {
	// Hash 计算口令摘要。
	Hash(password string) (string, error)
	// Verify 判断口令是否与摘要匹配。
	Verify(password, hash string) bool
}

// 实现名称，对应 config.AuthConfig.PasswordHasher
const (
	HasherDemo   = "demo"
	HasherBcrypt = "bcrypt"
)

// NewHasher 按名称创建 Hasher，未知名称返回错误。
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HasherDemo:
		return DemoHasher{}, nil
	case HasherBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	default:
		return nil, fmt.Errorf("未知的口令摘要实现: %q", name)
	}
}

// DemoHasher 与旧版前端存储中的摘要格式完全兼容："demo_" + 32 位字符串哈希的绝对值。
// 注意：仅演示用途，不可用于真实生产环境。
type DemoHasher struct{}

func (DemoHasher) Hash(password string) (string, error) {
	return DemoHash(password), nil
}

func (DemoHasher) Verify(password, hash string) bool {
	return DemoHash(password) == hash
}

// DemoHash 按 UTF-16 码元计算 h = h*31 + c（32 位有符号溢出回绕）。
func DemoHash(input string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(input)) {
		h = (h << 5) - h + int32(unit)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("demo_%d", abs)
}

// BcryptHasher 基于 bcrypt 的实现。
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (b BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt 生成摘要失败: %w", err)
	}
	return string(hashed), nil
}

func (b BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
