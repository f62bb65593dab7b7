package handler

import (
	"context"
	"errors"

	"TownBuilder/internal/shared/transport"
	"TownBuilder/internal/town/actor"
	"TownBuilder/internal/town/placement"
	"TownBuilder/modules/kit/logx"
)

var reasonMessages = map[placement.Reason]string{
	placement.ReasonOccupied:            "该位置已有建筑",
	placement.ReasonUnknownType:         "未知的建筑类型",
	placement.ReasonAirportTerrain:      "机场需要平坦草地，周围不能有山地或泥地",
	placement.ReasonFarmHouseMissing:    "农田必须紧挨农舍",
	placement.ReasonTerrain:             "该地形无法建造",
	placement.ReasonNoRoad:              "建筑必须靠近道路",
	placement.ReasonInsufficientFunds:   "资金不足",
	placement.ReasonNotFound:            "该位置没有建筑",
	placement.ReasonDestinationOccupied: "目标位置已有建筑",
	placement.ReasonOutOfBounds:         "目标位置超出地图",
}

// ReasonMessage 返回放置原因码对应的提示语。
func ReasonMessage(reason string) string {
	if msg, ok := reasonMessages[placement.Reason(reason)]; ok {
		return msg
	}
	return "操作被拒绝"
}

// HandleError 把 runtime 错误映射成 (业务码, 原因码, 提示语)，系统错误打一次日志。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string, string) {
	code := actor.CodeFromError(err)
	reason := actor.ReasonFromError(err)
	transport.SetErrorReason(ctx, reason)

	switch {
	case reason != "":
		logx.ReportBizReject(ctx, log, action, reason)
		return code, reason, ReasonMessage(reason)
	case code == transport.Timeout:
		logx.ReportSysError(ctx, log, action, err)
		return code, "", "请求超时，请稍后重试"
	case code >= transport.SystemError:
		logx.ReportSysError(ctx, log, action, err)
		return code, "", "系统繁忙，请稍后重试"
	default:
		return code, "", errMessage(err)
	}
}

func errMessage(err error) string {
	var re *actor.RuntimeError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return "请求被拒绝"
}
