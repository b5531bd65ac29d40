package yacallback

import "github.com/gotd/td/tg"

// messageFromUpdates digs the message with the given id out of an updates
// container. Returns nil when the container carries no such message, e.g. for
// short updates.
func messageFromUpdates(updates tg.UpdatesClass, msgID int) *tg.Message {
	switch u := updates.(type) {
	case *tg.Updates:
		return messageFromUpdateSlice(u.Updates, msgID)
	case *tg.UpdatesCombined:
		return messageFromUpdateSlice(u.Updates, msgID)
	case *tg.UpdateShort:
		return messageFromUpdate(u.Update, msgID)
	}

	return nil
}

func messageFromUpdateSlice(updates []tg.UpdateClass, msgID int) *tg.Message {
	for _, upd := range updates {
		if msg := messageFromUpdate(upd, msgID); msg != nil {
			return msg
		}
	}

	return nil
}

func messageFromUpdate(upd tg.UpdateClass, msgID int) *tg.Message {
	var candidate tg.MessageClass

	switch u := upd.(type) {
	case *tg.UpdateEditMessage:
		candidate = u.Message
	case *tg.UpdateEditChannelMessage:
		candidate = u.Message
	case *tg.UpdateNewMessage:
		candidate = u.Message
	case *tg.UpdateNewChannelMessage:
		candidate = u.Message
	default:
		return nil
	}

	if msg, ok := candidate.(*tg.Message); ok && msg.ID == msgID {
		return msg
	}

	return nil
}
