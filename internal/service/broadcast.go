package service

// 服务端向全体在线观察者推送的事件名，与前端约定保持一致
const (
	EventPostUpdated       = "postUpdated"
	EventLikesCountUpdated = "likesCountUpdated"
	EventCommentUpdated    = "commentUpdated"
	EventCommentDeleted    = "commentDeleted"
	EventReplyDeleted      = "replyDeleted"
)

// Broadcaster 变更成功后向所有连接无条件扇出；尽力而为，失败不回滚变更
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// NopBroadcaster 单测或关闭推送时使用
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, any) {}
