// Package classify tags recovered firmware strings with semantic categories.
//
// All pattern knowledge lives in one declarative registry of matchers applied
// uniformly by a single classification pass; adding a category never touches
// extraction logic. Two matcher families exist: string matchers run against
// every recovered string, buffer matchers run once per file against the raw
// bytes (PEM header marker, field-tag density score).
package classify

import "regexp"

// Set selects which matcher group a scan mode uses. Deep scan works on a
// single binary's dual-encoding strings; recon works on ASCII strings from
// every ELF in a rootfs.
type Set uint8

const (
	SetDeep Set = 1 << iota
	SetRecon
)

// Matcher is one named category: a predicate/extractor applied independently
// to each recovered string. Apply returns the hit values the string
// contributes (the whole string for predicate-style matchers, extracted
// tokens for extractor-style ones); nil means no match.
type Matcher struct {
	ID       string
	Describe string
	Sets     Set
	Apply    func(s string) []string
}

// deviceIDKeys are protocol field names whose presence marks a string as
// device-identity related.
var deviceIDKeys = []string{
	"devId", "deviceId", "uuid", "uid", "authKey", "localKey",
	"productKey", "pk_id", "schemaId", "cid", "clientId",
}

var (
	reMQTTTopicLike = regexp.MustCompile(`(/[a-zA-Z0-9_\-]+){2,}`)
	reDPField       = regexp.MustCompile(`"?(?:devId|gwId|dps|uid|localKey|schemaId|productKey|cid)"?`)
	reHexKey        = regexp.MustCompile(`\b[0-9a-fA-F]{32}\b|\b[0-9a-fA-F]{48}\b|\b[0-9a-fA-F]{64}\b`)
	reBase64Key     = regexp.MustCompile(`\b[A-Za-z0-9+/]{22,}={0,2}\b`)
	reSignatureHint = regexp.MustCompile(`(?i)(signature|authKey|localKey|HMAC|SHA256|ECDSA|curve25519|X-Amz-Signature)`)

	reURL        = regexp.MustCompile(`https?://[a-zA-Z0-9\.\-_/:%\?\=&]+`)
	reCloudHost  = regexp.MustCompile(`\b[a-zA-Z0-9\.\-]+\.(?:tuya(?:cloud)?\.com|tuyaeu\.com|tuyaus\.com|amazonaws\.com|aliyun\.com)\b`)
	reMQTTWord   = regexp.MustCompile(`(?i)\b(mqtt|mqtts|amqps?)\b`)
	reNamedTopic = regexp.MustCompile(`[a-zA-Z0-9/_\-]+/(?:status|state|command|event|online|offline|dp|control|upgrade)`)
	reKeyLike    = regexp.MustCompile(`\b[0-9a-fA-F]{16,64}\b`)
	reBase64Like = regexp.MustCompile(`\b[A-Za-z0-9+/]{16,}={0,2}\b`)
	reRealtek    = regexp.MustCompile(`(?i)(rts3903|rts3906|rts_soc|Realtek|RTL8188|8188fu|rts_)`)
	reIoctl      = regexp.MustCompile(`(?i)\bioctl\b`)
	reSensor     = regexp.MustCompile(`(?i)\b(ov[0-9]{3,4}|gc[0-9]{3,4}|ar0[0-9]{3}|imx[0-9]{3,4}|jxf[0-9]{3,4}|ispfw|isp_firmware|sensor_init|sensor_drv|mipi_rx)\b`)
	rePairing    = regexp.MustCompile(`(?i)(pairing|ap_mode|smartconfig|ezconfig|binding|unbind|activation)`)
)

func predicate(re *regexp.Regexp) func(string) []string {
	return func(s string) []string {
		if re.MatchString(s) {
			return []string{s}
		}
		return nil
	}
}

func extractor(re *regexp.Regexp) func(string) []string {
	return func(s string) []string {
		return re.FindAllString(s, -1)
	}
}

// jsonLikeMaxLen guards the json_like presence heuristic against matching
// oversized unrelated blobs.
const jsonLikeMaxLen = 512

func matchJSONLike(s string) []string {
	if len(s) > jsonLikeMaxLen {
		return nil
	}
	var brace, close_, colon bool
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			brace = true
		case '}':
			close_ = true
		case ':':
			colon = true
		}
	}
	if brace && close_ && colon {
		return []string{s}
	}
	return nil
}

func matchDeviceIDField(s string) []string {
	for _, key := range deviceIDKeys {
		if containsToken(s, key) {
			return []string{s}
		}
	}
	return nil
}

func containsToken(s, tok string) bool {
	// plain substring match; field names are distinctive enough
	for i := 0; i+len(tok) <= len(s); i++ {
		if s[i:i+len(tok)] == tok {
			return true
		}
	}
	return false
}

// namedTopicMinLen drops trivially short topic fragments.
const namedTopicMinLen = 5

func matchNamedTopics(s string) []string {
	var out []string
	for _, m := range reNamedTopic.FindAllString(s, -1) {
		if len(m) >= namedTopicMinLen {
			out = append(out, m)
		}
	}
	return out
}

// registry is the fixed, closed matcher set. Order here is category order in
// human-readable reports.
var registry = []Matcher{
	{ID: "urls", Describe: "URLs embedded in strings", Sets: SetRecon, Apply: extractor(reURL)},
	{ID: "hosts", Describe: "cloud endpoint hostnames", Sets: SetRecon, Apply: extractor(reCloudHost)},
	{ID: "json_like", Describe: "JSON-like fragments", Sets: SetDeep, Apply: matchJSONLike},
	{ID: "mqtt_topics_like", Describe: "MQTT topic-like strings", Sets: SetDeep, Apply: predicate(reMQTTTopicLike)},
	{ID: "mqtt_topics", Describe: "named MQTT topic paths", Sets: SetRecon, Apply: matchNamedTopics},
	{ID: "mqtt_strings", Describe: "MQTT/AMQP protocol mentions", Sets: SetRecon, Apply: predicate(reMQTTWord)},
	{ID: "dp_field_fragments", Describe: "data-point protocol field fragments", Sets: SetDeep, Apply: predicate(reDPField)},
	{ID: "device_id_hits", Describe: "device-identity field references", Sets: SetRecon, Apply: matchDeviceIDField},
	{ID: "aes_key_hex_candidates", Describe: "128/192/256-bit hex key candidates", Sets: SetDeep, Apply: extractor(reHexKey)},
	{ID: "base64_key_candidates", Describe: "base64 key candidates", Sets: SetDeep, Apply: extractor(reBase64Key)},
	{ID: "key_like", Describe: "hex tokens of key-like length", Sets: SetRecon, Apply: extractor(reKeyLike)},
	{ID: "base64_like", Describe: "base64-like tokens", Sets: SetRecon, Apply: extractor(reBase64Like)},
	{ID: "signature_hits", Describe: "signature/crypto hints", Sets: SetDeep, Apply: predicate(reSignatureHint)},
	{ID: "realtek", Describe: "Realtek/SoC hints", Sets: SetRecon, Apply: predicate(reRealtek)},
	{ID: "ioctls", Describe: "ioctl references", Sets: SetRecon, Apply: predicate(reIoctl)},
	{ID: "sensor", Describe: "image sensor / ISP hints", Sets: SetRecon, Apply: predicate(reSensor)},
	{ID: "pairing", Describe: "pairing/provisioning hints", Sets: SetRecon, Apply: predicate(rePairing)},
}

// All returns the full matcher registry in category order.
func All() []Matcher { return registry }

// ForSet returns the matchers participating in the given scan mode,
// preserving registry order.
func ForSet(set Set) []Matcher {
	var out []Matcher
	for _, m := range registry {
		if m.Sets&set != 0 {
			out = append(out, m)
		}
	}
	return out
}

// IDs lists every category ID, string and buffer matchers included.
func IDs() []string {
	out := make([]string, 0, len(registry)+2)
	for _, m := range registry {
		out = append(out, m.ID)
	}
	out = append(out, CategoryPEMHeader, "protobuf_field_tag_score")
	return out
}

// Describe returns the human label for a category ID, or the ID itself when
// unknown.
func Describe(id string) string {
	for _, m := range registry {
		if m.ID == id {
			return m.Describe
		}
	}
	if id == CategoryPEMHeader {
		return "PEM public key markers"
	}
	return id
}

// Order returns category IDs in canonical render order for the given set.
func Order(set Set) []string {
	var out []string
	for _, m := range ForSet(set) {
		out = append(out, m.ID)
	}
	if set&SetDeep != 0 {
		out = append(out, CategoryPEMHeader)
	}
	return out
}
