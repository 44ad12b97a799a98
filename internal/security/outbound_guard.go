package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// blockedNetworks は外部接続先として許可しないネットワーク範囲。
// 設定値の静的な検証に使い、実際の接続時の検証はsafeurlのDialerが行う。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		// クラウドメタデータIP (169.254.169.254) を含む
		"169.254.0.0/16",
		"0.0.0.0/8",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// OutboundGuard は外部API呼び出し用のHTTPクライアントを生成する。
// 設定ミスや設定値の改ざんで内部ネットワークへリクエストが向かうことを防ぐ。
type OutboundGuard struct {
	ports []int
}

// NewOutboundGuard はOutboundGuardを生成する。
// portsを省略した場合は443のみ許可する。
func NewOutboundGuard(ports ...int) *OutboundGuard {
	if len(ports) == 0 {
		ports = []int{443}
	}
	return &OutboundGuard{ports: ports}
}

// NewSafeClient はsafeurlでラップしたHTTPクライアントを返す。
// 接続時にDNS解決後のIPアドレスを検証し、プライベートIP、ループバック、
// リンクローカルへの接続を拒否する。スキームはhttpsのみ許可する。
func (g *OutboundGuard) NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(g.ports...).
		Build()

	return safeurl.Client(config).Client
}

// ValidateEndpoint は起動時に外部APIのURL設定を検証する。
// DNS解決を伴わない静的な検証のみ行う。
func (g *OutboundGuard) ValidateEndpoint(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("disallowed scheme: %q (https only)", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if port := parsed.Port(); port != "" && !g.allowsPort(port) {
		return fmt.Errorf("disallowed port: %s (allowed: %v)", port, g.ports)
	}

	if ip := net.ParseIP(host); ip != nil {
		for _, network := range blockedNetworks {
			if network.Contains(ip) {
				return fmt.Errorf("blocked IP address: %s", ip.String())
			}
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}

func (g *OutboundGuard) allowsPort(port string) bool {
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	for _, p := range g.ports {
		if p == n {
			return true
		}
	}
	return false
}
