package v0_rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateNetblockReqValidation(t *testing.T) {
	assert.NoError(t, validate.Struct(CreateNetblockReq{Address: "10.0.0.0/8"}))
	assert.NoError(t, validate.Struct(CreateNetblockReq{Address: "2001:db8::/32", ExpiresAt: 1}))

	// a bare address is not a CIDR range
	assert.Error(t, validate.Struct(CreateNetblockReq{Address: "10.0.0.1"}))
	assert.Error(t, validate.Struct(CreateNetblockReq{}))
	assert.Error(t, validate.Struct(CreateNetblockReq{Address: "10.0.0.0/8", ExpiresAt: -1}))
}
