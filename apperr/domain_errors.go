package apperr

var (
	ErrConversationNotFound = NotFound("conversation not found")
	ErrNotificationNotFound = NotFound("notification not found")
	ErrUserNotFound         = NotFound("user not found")
	ErrReceiverNotFound     = NotFound("receiver not found")
	ErrCarNotFound          = NotFound("car not found")
	ErrSenderNotFound       = NotFound("sender not found")

	ErrNotParticipant = Forbidden("access denied: you are not a participant in this conversation")
	ErrNotOwner       = Forbidden("access denied: notification belongs to another user")

	ErrMessageRequired   = Validation("message content is required")
	ErrTargetRequired    = Validation("either conversation_id or both receiver_id and car_id are required")
	ErrSelfConversation  = Validation("cannot start a conversation with yourself")
	ErrInvalidIdentifier = Validation("invalid identifier")
)
