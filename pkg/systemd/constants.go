package systemd

const (
	NotifySocketEnvVar = "NOTIFY_SOCKET"
	NotifyWatchdog     = "WATCHDOG=1"
	NotifyReady        = "READY=1"
	NotifyStopping     = "STOPPING=1"
)
