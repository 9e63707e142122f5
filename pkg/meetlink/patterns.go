package meetlink

// Pattern is one named provider entry in the extraction table. The table is
// ordered: providers are tried most-common first, so adding a niche provider
// is an append, never a logic change.
type Pattern struct {
	Name string
	Expr string
}

// DefaultPatterns covers the video-conferencing providers we know how to
// recognize, in priority order.
var DefaultPatterns = []Pattern{
	{Name: "zoom", Expr: `https?://[\w.-]*zoom\.us/j/[\w?=&.-]+`},
	{Name: "google-meet", Expr: `https?://meet\.google\.com/[\w-]+`},
	{Name: "ms-teams", Expr: `https?://teams\.microsoft\.com/l/meetup-join/[\w%/.?=&-]+`},
	{Name: "webex", Expr: `https?://[\w.-]+\.webex\.com/[\w/.-]+`},
	{Name: "whereby", Expr: `https?://whereby\.com/[\w-]+`},
	{Name: "around", Expr: `https?://(?:meet\.)?around\.co/[\w/-]+`},
	{Name: "discord", Expr: `https?://(?:www\.)?(?:discord\.gg/[\w-]+|discord(?:app)?\.com/channels/[\w/-]+)`},
	{Name: "slack-huddle", Expr: `https?://[\w-]+\.slack\.com/(?:huddle|calls)/[\w/-]+`},
	{Name: "jitsi", Expr: `https?://meet\.jit\.si/[\w-]+`},
	{Name: "gotomeeting", Expr: `https?://[\w.-]*gotomeeting\.com/join/[\w-]+`},
}
