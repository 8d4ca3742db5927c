// Package plm moves PLM frames over a byte stream: Reader accumulates
// partial reads and resynchronizes after garbage, Writer encodes commands.
//
// Resync policy, used after a malformed header or unknown message type:
// drop the first byte and everything up to the next StartByte 0x02.
// The marker may also occur inside payload data, so a wrong guess costs
// at most one more round of the same policy.
package plm
