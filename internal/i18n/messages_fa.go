package i18n

// persianMessages contains all Persian (Farsi) translations.
var persianMessages = map[string]string{
	// Operator notifications
	"notify.cycle_aborted":     "🛑 چرخه بررسی روی پلی‌لیست <b>%s</b> متوقف شد:\n<code>%v</code>",
	"notify.fetch_failure":     "⬇️ دانلود %s ناموفق بود:\n<code>%v</code>",
	"notify.permanent_failure": "❌ ارسال %s (کانال %s) کنار گذاشته شد:\n<code>%v</code>\nاین آهنگ در این چرخه دوباره ارسال نخواهد شد.",
	"notify.retries_exhausted": "⚠️ ارسال %s (کانال %s) پس از چند تلاش ناموفق ماند:\n<code>%v</code>\nاین آهنگ در چرخه بعدی دوباره تلاش خواهد شد.",

	// Command replies
	"cmd.help": "🎧 <b>tunedrop</b>\n\n" +
		"/add &lt;playlist-url&gt; &lt;channel&gt; [name] — دنبال کردن یک پلی‌لیست\n" +
		"/remove &lt;playlist&gt; — توقف دنبال کردن پلی‌لیست\n" +
		"/list — پلی‌لیست‌های دنبال‌شده\n" +
		"/check — اجرای یک چرخه بررسی\n" +
		"/stats — آمار\n" +
		"/setarl &lt;arl&gt; — تنظیم اعتبارنامه دانلود",
	"cmd.flood": "⏳ دستورهای زیادی فرستادید، کمی صبر کنید.",

	"cmd.add_usage":           "نحوه استفاده: /add <playlist-url> <channel> [name]",
	"cmd.add_invalid_url":     "این لینک شبیه پلی‌لیست اسپاتیفای نیست.",
	"cmd.add_invalid_channel": "کانال %q نامعتبر است، @channelname یا شناسه عددی لازم است.",
	"cmd.add_failed":          "افزودن پلی‌لیست ممکن نشد: %v",
	"cmd.add_ok":              "✅ پلی‌لیست <b>%s</b> دنبال می‌شود، آهنگ‌های جدید به %s می‌روند.",

	"cmd.remove_usage":   "نحوه استفاده: /remove <playlist-url-or-id>",
	"cmd.remove_missing": "پلی‌لیست %s دنبال نمی‌شود.",
	"cmd.remove_failed":  "حذف پلی‌لیست ممکن نشد: %v",
	"cmd.remove_ok":      "✅ دنبال کردن <b>%s</b> متوقف شد.",

	"cmd.list_empty":         "هیچ پلی‌لیستی دنبال نمی‌شود. با /add یکی اضافه کنید.",
	"cmd.list_header":        "📋 <b>پلی‌لیست‌های دنبال‌شده</b>\n",
	"cmd.list_entry":         "\n%d. <b>%s</b> (<code>%s</code>)\n   → %s · %d آهنگ · آخرین بررسی %s",
	"cmd.list_never_checked": "هرگز",

	"cmd.arl_missing":   "اعتبارنامه دانلود تنظیم نشده است. اول از /setarl استفاده کنید.",
	"cmd.check_started": "🔄 چرخه بررسی شروع شد.",

	"cmd.stats": "📊 <b>آمار</b>\nپلی‌لیست‌ها: %d\nآهنگ‌های شناخته‌شده: %d\nآهنگ‌های ارسال‌شده: %d\nچرخه‌های اجراشده: %d\nآخرین چرخه: %s",

	"cmd.setarl_usage":  "نحوه استفاده: /setarl <arl-token>",
	"cmd.setarl_failed": "ذخیره اعتبارنامه ممکن نشد: %v",
	"cmd.setarl_ok":     "✅ اعتبارنامه ذخیره شد.",
}
