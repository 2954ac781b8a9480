package bot

import "strconv"

// Links are the static URL buttons of the welcome keyboard.
type Links struct {
	UpdateChannel string
	Support       string
	Group         string
}

// Settings is the immutable bot configuration shared by all handlers.
type Settings struct {
	// BotName is the display name used in the welcome text.
	BotName string
	// BotUsername builds the "add to group" deep link.
	BotUsername string
	// OwnerID bypasses the admin check and is shown by the Owner ID button.
	OwnerID int64
	// ChatOn is the global switch for group replies.
	ChatOn bool
	// ResetChatOnMessage turns a group back on whenever a message arrives.
	ResetChatOnMessage bool
	Links              Links
}

// OwnerLabel renders OwnerID for display.
func (s Settings) OwnerLabel() string {
	if s.OwnerID == 0 {
		return "Not Set"
	}
	return strconv.FormatInt(s.OwnerID, 10)
}

// AddToGroupURL is the deep link that opens the "add bot to group" flow.
func (s Settings) AddToGroupURL() string {
	return "https://t.me/" + s.BotUsername + "?startgroup=true"
}
