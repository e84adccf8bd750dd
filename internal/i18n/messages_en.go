package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Operator notifications
	"notify.cycle_aborted":     "🛑 Check cycle aborted on playlist <b>%s</b>:\n<code>%v</code>",
	"notify.fetch_failure":     "⬇️ Download failed for %s:\n<code>%v</code>",
	"notify.permanent_failure": "❌ Giving up on %s (channel %s):\n<code>%v</code>\nThe track will not be retried this cycle.",
	"notify.retries_exhausted": "⚠️ Delivery of %s (channel %s) failed after repeated attempts:\n<code>%v</code>\nThe track will be retried next cycle.",

	// Command replies
	"cmd.help": "🎧 <b>tunedrop</b>\n\n" +
		"/add &lt;playlist-url&gt; &lt;channel&gt; [name] — watch a playlist\n" +
		"/remove &lt;playlist&gt; — stop watching a playlist\n" +
		"/list — watched playlists\n" +
		"/check — run a check cycle now\n" +
		"/stats — poller statistics\n" +
		"/setarl &lt;arl&gt; — set the download credential",
	"cmd.flood": "⏳ Too many commands, slow down a bit.",

	"cmd.add_usage":           "Usage: /add <playlist-url> <channel> [name]",
	"cmd.add_invalid_url":     "That doesn't look like a Spotify playlist link.",
	"cmd.add_invalid_channel": "Invalid channel %q, expected @channelname or a numeric chat ID.",
	"cmd.add_failed":          "Couldn't add the playlist: %v",
	"cmd.add_ok":              "✅ Watching <b>%s</b>, new tracks go to %s.",

	"cmd.remove_usage":   "Usage: /remove <playlist-url-or-id>",
	"cmd.remove_missing": "Playlist %s is not being watched.",
	"cmd.remove_failed":  "Couldn't remove the playlist: %v",
	"cmd.remove_ok":      "✅ Stopped watching <b>%s</b>.",

	"cmd.list_empty":         "No playlists are being watched. Add one with /add.",
	"cmd.list_header":        "📋 <b>Watched playlists</b>\n",
	"cmd.list_entry":         "\n%d. <b>%s</b> (<code>%s</code>)\n   → %s · %d tracks · last checked %s",
	"cmd.list_never_checked": "never",

	"cmd.arl_missing":   "No download credential set. Use /setarl first.",
	"cmd.check_started": "🔄 Check cycle started.",

	"cmd.stats": "📊 <b>Stats</b>\nPlaylists: %d\nKnown tracks: %d\nSent tracks: %d\nCycles run: %d\nLast cycle: %s",

	"cmd.setarl_usage":  "Usage: /setarl <arl-token>",
	"cmd.setarl_failed": "Couldn't save the credential: %v",
	"cmd.setarl_ok":     "✅ Credential saved.",
}
