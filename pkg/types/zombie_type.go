// Package types 定义共享的基础类型
package types

// ZombieID 僵尸类型ID（对应 units.yaml 中 zombies 表的键）
type ZombieID int

const (
	// ZombieUnknown 未知僵尸类型
	ZombieUnknown ZombieID = iota

	ZombieBasic      // 普通僵尸
	ZombieConehead   // 路障僵尸
	ZombieBuckethead // 铁桶僵尸
	ZombieFlag       // 旗帜僵尸
)

// zombieNames 僵尸类型到配置字符串的映射
var zombieNames = map[ZombieID]string{
	ZombieBasic:      "basic",
	ZombieConehead:   "conehead",
	ZombieBuckethead: "buckethead",
	ZombieFlag:       "flag",
}

// String 返回僵尸类型的配置字符串表示
func (z ZombieID) String() string {
	if s, ok := zombieNames[z]; ok {
		return s
	}
	return "unknown"
}

// ZombieIDFromString 将配置字符串转换为 ZombieID
func ZombieIDFromString(s string) ZombieID {
	for id, name := range zombieNames {
		if name == s {
			return id
		}
	}
	return ZombieUnknown
}
