package i18n

// messagesZhCN holds the Simplified Chinese message templates.
// Keys must stay in lockstep with messagesEnUS; the catalog test enforces it.
var messagesZhCN = map[Code]string{
	CodeEventTitleEmpty:           "活动标题不能为空。",
	CodeEventBookMissing:          "共读活动需要选择一本书。",
	CodeEventLeaderMissing:        "共读活动需要一位领读人。",
	CodeEventInvalidDates:         "结束日期不能早于开始日期。",
	CodeEventInvalidBounds:        "参与人数设置无效：最少 {{.Min}} 人，最多 {{.Max}} 人。",
	CodeEventInvalidAssignment:    "未知的带读分配方式。",
	CodeEventInvalidTransition:    "活动无法从 {{.FromStatus}} 变更为 {{.ToStatus}}。",
	CodeEventCannotStart:          "活动暂时无法开始：{{.Reason}}。",
	CodeEventCannotComplete:       "活动结束日期之前无法结营。",
	CodeEventCannotDelete:         "只有草稿或被驳回的活动才能删除。",
	CodeEventStatusLocked:         "活动当前状态下不能再编辑。",
	CodePermissionDenied:          "当前无法进行此操作：{{.Reason}}。",
	CodeLeadershipAlreadyClaimed:  "第 {{.DayNumber}} 天的带读已被认领。",
	CodeLeadershipClaimNotAllowed: "该活动不支持认领每日带读。",
	CodeEnrollmentClosed:          "该活动报名已截止。",
	CodeEnrollmentFull:            "该活动报名人数已满（上限 {{.Max}} 人）。",
	CodeEnrollmentInactive:        "你的报名已失效。",
	CodeEnrollmentInvalidType:     "未知的报名类型。",
	CodeDuplicateSubmission:       "请勿重复提交。",
	CodeCheckInContentTooShort:    "打卡内容至少需要 {{.Min}} 个字。",
	CodeCheckInDayNotArrived:      "第 {{.DayNumber}} 天尚未开始。",
	CodeCheckInLocked:             "已收到小红花的打卡不能再修改。",
	CodeFlowerSelfGrant:           "不能给自己的打卡送小红花。",
	CodeLeadingSuggestionEmpty:    "带读内容不能为空。",
	CodeTokenInvalid:              "登录状态无效，请重新登录。",
	CodeTokenExpired:              "登录已过期，请重新登录。",
	CodeNotFound:                  "找不到对应的记录。",
}
