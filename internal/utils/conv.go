package utils

import (
	"strconv"
)

// StringToInt 解析查询参数里的整数，解析失败按 0 处理，
// 由调用方决定 0 的回落行为（默认分页、默认条数等）
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}
