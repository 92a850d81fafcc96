package filters

import "errors"

// decodeSZIP always fails: SZIP uses extended Golomb-Rice coding
// (CCSDS 121.0-B-3) implemented in C by libaec, and no pure Go
// implementation exists to decode it.
func decodeSZIP(_ []byte) ([]byte, error) {
	return nil, errors.New("SZIP filter not supported: no pure Go libaec implementation available")
}
