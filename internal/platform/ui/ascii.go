// internal/platform/ui/ascii.go
package ui

// Banner principal mostrado al arrancar un escaneo.
const Banner = `
██████╗ ███████╗██████╗ ██████╗ ███████╗ ██████╗ ██████╗ ███╗   ██╗
██╔══██╗██╔════╝██╔══██╗██╔══██╗██╔════╝██╔════╝██╔═══██╗████╗  ██║
██████╔╝█████╗  ██║  ██║██████╔╝█████╗  ██║     ██║   ██║██╔██╗ ██║
██╔══██╗██╔══╝  ██║  ██║██╔══██╗██╔══╝  ██║     ██║   ██║██║╚██╗██║
██║  ██║███████╗██████╔╝██║  ██║███████╗╚██████╗╚██████╔╝██║ ╚████║
╚═╝  ╚═╝╚══════╝╚═════╝ ╚═╝  ╚═╝╚══════╝ ╚═════╝ ╚═════╝ ╚═╝  ╚═══╝
`

// Tagline línea bajo el banner. %s = versión.
const Tagline = "[ v%s ] [ RED TEAM OPS ] [ ASYNC CORE ]"

// Textos fijos de la UI
const (
	TitleMission = "MISSION PARAMETERS"
	TitleResults = "EXFILTRATED INTELLIGENCE"
	MsgNoProbes  = "CRITICAL: No modules loaded. Aborting."
	MsgInterrupt = "INTERRUPTED BY USER"
	OpsecLevel   = "HIGH"
)
