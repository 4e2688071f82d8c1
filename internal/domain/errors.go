package domain

import "errors"

var (
	ErrAppointmentNotFound = errors.New("预约不存在")
	ErrStationNotFound     = errors.New("工位不存在")
	// ErrStaleWrite 表示提交时数据库中的记录已经被其他会话修改过
	ErrStaleWrite = errors.New("预约已被其他人修改，请刷新后重试")
)
