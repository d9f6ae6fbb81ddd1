package portscan

// namedPort binds a well-known port to the label reported for it.
type namedPort struct {
	Port int
	Name string
}

// commonPorts is the default scan list. Table order is scan order.
var commonPorts = []namedPort{
	{21, "FTP"},
	{22, "SSH"},
	{23, "Telnet"},
	{25, "SMTP"},
	{53, "DNS"},
	{80, "HTTP"},
	{110, "POP3"},
	{139, "NetBIOS"},
	{143, "IMAP"},
	{443, "HTTPS"},
	{445, "SMB"},
	{3389, "RDP"},
	{3306, "MySQL"},
	{5432, "PostgreSQL"},
	{5900, "VNC"},
	{8000, "Dev Server"},
	{8080, "HTTP-Alt"},
	{8443, "HTTPS-Alt"},
	{8888, "Jupyter"},
	{9200, "Elasticsearch"},
	{6379, "Redis"},
	{27017, "MongoDB"},
	{25565, "Minecraft Server"},
}

var serviceNames map[int]string

func init() {
	serviceNames = make(map[int]string, len(commonPorts))
	for _, p := range commonPorts {
		serviceNames[p.Port] = p.Name
	}
}

// ServiceName returns the label of a well-known port, or "unknown".
// Pure table lookup, no traffic is sent to the target.
func ServiceName(port int) string {
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "unknown"
}

// CommonPorts returns the default scan list in table order.
func CommonPorts() []int {
	ports := make([]int, len(commonPorts))
	for i, p := range commonPorts {
		ports[i] = p.Port
	}
	return ports
}
