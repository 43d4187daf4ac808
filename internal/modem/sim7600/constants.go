package sim7600

import "time"

const (
	MgmtTty      = "/dev/serial/by-id/usb-SimTech__Incorporated_SimTech__Incorporated_0123456789ABCDEF-if02-port0"
	MgmtBaudrate = 115200

	// Granularity of the serial read timeout, one poll never blocks longer
	SerialReadTimeout = 10 * time.Millisecond

	LineTerminator = "\r\n"

	DefaultAPN            = "internet"
	DefaultCommandTimeout = 800 * time.Millisecond
	PollInterval          = 10 * time.Millisecond

	NetOpenTimeout = 2000 * time.Millisecond

	// HTTPDataWindow is advertised to the modem in AT+HTTPDATA, it is not a local wait
	HTTPDataWindow     = 5000 * time.Millisecond
	HTTPDataSettle     = 200 * time.Millisecond
	HTTPActionTimeout  = 6000 * time.Millisecond
	DefaultContentType = "application/json"
)

const (
	AtPing         = "AT"
	AtFullFunction = "AT+CFUN=1"
	AtSimStatus    = "AT+CPIN?"
	AtSignal       = "AT+CSQ"
	AtRegistration = "AT+CREG?"
	AtAttach       = "AT+CGATT=1"
	AtPdpContext   = "AT+CGDCONT"
	AtPdpActivate  = "AT+CGACT=1,1"
	AtNetOpen      = "AT+NETOPEN"

	AtHTTPTerm   = "AT+HTTPTERM"
	AtHTTPInit   = "AT+HTTPINIT"
	AtHTTPPara   = "AT+HTTPPARA"
	AtHTTPData   = "AT+HTTPDATA"
	AtHTTPAction = "AT+HTTPACTION"

	// HTTPMethodPost is the AT+HTTPACTION method index for POST
	HTTPMethodPost = 1

	AtGpsState      = "AT+CGPS"
	AtGpsStateQuery = AtGpsState + "?"
	AtGpsInfo       = "AT+CGPSINFO"

	AtResetModem = "AT+CRESET"
)
