// Package message is the Insteon PLM binary message codec.
//
// Every frame starts with StartByte 0x02 followed by a Code byte which
// selects the wire layout. Commands sent by the host are echoed back by the
// modem with one trailing status byte (0x06 ack, anything else nak); Encode
// never writes that byte, decoding reads it when present.
//
// Registry turns a byte stream prefix into Outcome: a decoded Message, a
// request for more bytes, or an unknown/malformed header the caller must
// resynchronize after. The codec keeps no state and does no I/O.
package message
