package errors

import "errors"

// ErrSlotConflict 时间段冲突：房间在该区间已被占用
var ErrSlotConflict = errors.New("该时间段已被占用")

// ErrRoomUnavailable 房间不存在或已停用
var ErrRoomUnavailable = errors.New("房间不可用")
