package services

import "errors"

// 业务错误，controller 层据此决定 HTTP 状态码，错误文案直接面向用户。
var (
	ErrEmptyWordBank    = errors.New("单词本为空，请先添加单词")
	ErrSessionNotFound  = errors.New("考核批次不存在")
	ErrSessionCompleted = errors.New("该考核已结束")
	ErrWordNotInSession = errors.New("该单词不在本次考核中")
	ErrAlreadyAnswered  = errors.New("该单词已经回答过")
	ErrWordNotFound     = errors.New("单词不存在")
	ErrWordExists       = errors.New("该单词已存在")
)
