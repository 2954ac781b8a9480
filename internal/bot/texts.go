package bot

const (
	welcomeFormat = "Hello %s! I am %s 🤖\nWelcome! I can chat with you and also work in groups."

	btnUpdateChannel = "Update Channel"
	btnSupport       = "Support"
	btnGroup         = "GC / Group"
	btnOwnerID       = "Owner ID"
	btnAddToGroup    = "Add to Group"

	ownerIDFormat = "Owner ID: %s"

	echoFormat = "%s: %s"

	toggleFormat           = "Group chat is now %s"
	textNotAuthorized      = "You are not authorized to toggle chat."
	textGroupNotReady      = "This group is not initialized yet. Send any message here first, then try again."
	textPermissionCheckErr = "Could not verify your permissions. Please try again later."
	textStoreFailure       = "Something went wrong while saving data. Please try again later."
)

// CallbackOwnerID is the callback data of the Owner ID button.
const CallbackOwnerID = "owner_id"

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
