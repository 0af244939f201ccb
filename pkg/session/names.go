package session

// Cookie names understood by the engine.
const (
	// MemberIDCookie holds the member identifier half of a credential pair.
	MemberIDCookie = "ipb_member_id"
	// PassHashCookie holds the pass-hash half of a credential pair.
	PassHashCookie = "ipb_pass_hash"
	// DeviceTokenCookie is the device-binding token that only the mirror
	// host issues.
	DeviceTokenCookie = "igneous"
	// SkipServerCookie is the auxiliary token written to the token host
	// under TokenPath.
	SkipServerCookie = "skipserver"
	// IgnoreOffensiveCookie is set to "1" to skip the content warning page.
	IgnoreOffensiveCookie = "nw"
	// YayCookie is set by the mirror host when it refuses an account. It has
	// to be removed before the mirror will serve content again.
	YayCookie = "yay"
)

// PlaceholderValue is the reserved cookie value meaning "present but
// intentionally opaque". It is never a usable credential.
const PlaceholderValue = "mystery"

// editableNames lists the slots of an EditableSet, in display order.
var editableNames = [...]string{DeviceTokenCookie, MemberIDCookie, PassHashCookie}
