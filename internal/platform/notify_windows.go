//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

const toastManager = "[Windows.UI.Notifications.ToastNotificationManager]"

// toastScript builds the PowerShell that shows a toast. An empty icon
// selects the text-only template.
func toastScript(title, body, icon, duration string) string {
	kind := "ToastText02"
	if icon != "" {
		kind = "ToastImageAndText02"
	}
	var sb strings.Builder
	sb.WriteString(toastManager[:len(toastManager)-1] + ", Windows.UI.Notifications, ContentType=Windows Runtime] > $null; ")
	fmt.Fprintf(&sb, "$t = %s::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::%s); ", toastManager, kind)
	sb.WriteString(`$lines = $t.GetElementsByTagName("text"); `)
	fmt.Fprintf(&sb, "$lines.Item(0).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(title))
	fmt.Fprintf(&sb, "$lines.Item(1).AppendChild($t.CreateTextNode(%s)) > $null; ", psQuote(body))
	if icon != "" {
		fmt.Fprintf(&sb, `$t.GetElementsByTagName("image").Item(0).SetAttribute("src", %s); `, psQuote(icon))
	}
	fmt.Fprintf(&sb, `$t.DocumentElement.SetAttribute("duration", %s); `, psQuote(duration))
	fmt.Fprintf(&sb, "%s::CreateToastNotifier(%s).Show([Windows.UI.Notifications.ToastNotification]::new($t));", toastManager, psQuote(AppName))
	return sb.String()
}

// Notify shows a toast through PowerShell. Toasts have no urgency, so
// critical notifications use the long duration.
func Notify(title, body string, opts Options) error {
	duration := "short"
	if opts.Urgency == UrgencyCritical {
		duration = "long"
	}
	script := toastScript(title, body, strings.TrimSpace(opts.IconPath), duration)
	return exec.Command("powershell.exe", "-NoProfile", "-Command", script).Run()
}
