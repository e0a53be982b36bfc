package migration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// record 是迁移阶段的原始记录形态：未经类型约束的 JSON 对象。
type record = map[string]any

// CoercionRule 描述一个目标字段如何从旧数据中得到。
// - Sources 按顺序查找，第一个非空值胜出（nil、""、false 视为空）。
// - 都为空时使用 Default；Default 为 nil 且 Required 为 true 时整条记录被丢弃。
// - Normalize 对最终值（包括默认值）做类型整形。
// - 非 Target 的来源字段在整形后从记录中移除。
type CoercionRule struct {
	Target    string
	Sources   []string
	Default   func() any
	Normalize func(any) any
	Required  bool
}

// CollectionRules 是某个集合在一个迁移步骤中要执行的规则。
type CollectionRules struct {
	Key   string
	Rules []CoercionRule
}

// applyRules 对单条记录执行规则。第二个返回值为 false 表示应当丢弃该记录。
func applyRules(in record, rules []CoercionRule) (record, bool) {
	out := make(record, len(in)+len(rules))
	for k, v := range in {
		out[k] = v
	}

	for _, rule := range rules {
		sources := rule.Sources
		if len(sources) == 0 {
			sources = []string{rule.Target}
		}

		var value any
		found := false
		for _, src := range sources {
			if v, ok := in[src]; ok && !isBlank(v) {
				value, found = v, true
				break
			}
		}
		if !found {
			if rule.Required {
				return nil, false
			}
			if rule.Default != nil {
				value = rule.Default()
			}
		}
		if rule.Normalize != nil {
			value = rule.Normalize(value)
		}

		for _, src := range sources {
			if src != rule.Target {
				delete(out, src)
			}
		}
		out[rule.Target] = value
	}
	return out, true
}

// applyToList 对列表中每个元素执行规则，非对象元素和被判定丢弃的记录都会被移除。
func applyToList(items []any, rules []CoercionRule) ([]any, int) {
	out := make([]any, 0, len(items))
	dropped := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		migrated, keep := applyRules(obj, rules)
		if !keep {
			dropped++
			continue
		}
		out = append(out, migrated)
	}
	return out, dropped
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	default:
		return false
	}
}

// --- 默认值 ---

func defaultTo(v any) func() any {
	return func() any { return v }
}

func emptyList() any {
	return []any{}
}

// --- 整形函数 ---

func asString(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// asNullableString 空值保持为 null，其余转为字符串。
func asNullableString(v any) any {
	if isBlank(v) {
		return nil
	}
	return asString(v)
}

func asBool(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	case float64:
		return t != 0
	default:
		return v != nil
	}
}

// asStringList 把任意值整形为字符串数组，非数组变为空数组。limit > 0 时截断。
func asStringList(limit int) func(any) any {
	return func(v any) any {
		items, ok := v.([]any)
		if !ok {
			return []any{}
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			if isBlank(item) {
				continue
			}
			if _, isObj := item.(map[string]any); isObj {
				continue
			}
			out = append(out, asString(item))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return out
	}
}

// asTimestamp 把时间整形为 RFC3339 字符串。接受 RFC3339 字符串和毫秒时间戳，其余使用 fallback。
func asTimestamp(fallback func() time.Time) func(any) any {
	return func(v any) any {
		switch t := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return parsed.UTC().Format(time.RFC3339Nano)
			}
		case float64:
			return time.UnixMilli(int64(t)).UTC().Format(time.RFC3339Nano)
		}
		return fallback().UTC().Format(time.RFC3339Nano)
	}
}

// asNullableTimestamp 空值保持为 null。
func asNullableTimestamp(fallback func() time.Time) func(any) any {
	normalize := asTimestamp(fallback)
	return func(v any) any {
		if isBlank(v) {
			return nil
		}
		return normalize(v)
	}
}

func asRole(v any) any {
	role, _ := asString(v).(string)
	return entities.NormalizeRole(strings.TrimSpace(role))
}

func asReportStatus(v any) any {
	if s, _ := asString(v).(string); s == constant.ReportResolved {
		return constant.ReportResolved
	}
	return constant.ReportPending
}

// asPreference 重建偏好对象：两个布尔开关加过敏源数组，未知字段丢弃。
func asPreference(v any) any {
	obj, _ := v.(map[string]any)
	return map[string]any{
		"lowSugar":  asBool(obj["lowSugar"]),
		"highFiber": asBool(obj["highFiber"]),
		"allergies": asStringList(0)(obj["allergies"]),
	}
}
