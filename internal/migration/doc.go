// Package migration decodes Google Authenticator bulk migration exports.
//
// An export line is a URI of the form
//
//	otpauth-migration://offline?data=<base64>
//
// optionally prefixed with "QR-Code:" as some QR scanner apps emit it. The data
// parameter is standard padded base64 of a protobuf MigrationPayload message:
//
//	message MigrationPayload {
//	  repeated OtpParameters otp_parameters = 1;
//	  int32 version = 2;
//	  int32 batch_size = 3;
//	  int32 batch_index = 4;
//	  int32 batch_id = 5;
//	}
//
//	message OtpParameters {
//	  bytes secret = 1;
//	  string name = 2;
//	  string issuer = 3;
//	  Algorithm algorithm = 4;
//	  DigitCount digits = 5;
//	  OtpType type = 6;
//	  int64 counter = 7;
//	}
//
// The message is read directly off the wire with protowire, so no generated code
// is involved and unknown fields are skipped.
//
// # Errors
//
// Every failure is a [*FormatError] that unwraps to one of the kind sentinels:
//   - [ErrUnsupportedScheme] : the line is not an otpauth-migration URI
//   - [ErrMissingField] : the data parameter is absent or empty
//   - [ErrBadEncoding] : data is not valid standard base64
//   - [ErrMalformedPayload] : the decoded bytes are not a valid MigrationPayload
//   - [ErrMissingSecret] : one record has no secret
//
// The first four abort the line. [ErrMissingSecret] only drops the offending record,
// which is reported in [models.Payload.Dropped] while its siblings decode normally.
package migration
