package session

import "strconv"

// NamespaceKey derives the blob-storage key for a (tenant, key) pair as
// "bot<tenant>/<key>". The tenant segment is purely numeric, so it can never
// contain the separator; distinct (tenant, key) pairs therefore never collide,
// even for keys that themselves contain "/". The namespaced form is internal
// and never exposed to callers.
func NamespaceKey(tenantID int64, key string) string {
	return "bot" + strconv.FormatInt(tenantID, 10) + "/" + key
}
