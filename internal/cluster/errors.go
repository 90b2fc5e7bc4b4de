package cluster

import "fmt"

func errMalformedRecord(kind string, got, want int) error {
	return fmt.Errorf("cluster: malformed %s record: got %d bytes, want %d", kind, got, want)
}
