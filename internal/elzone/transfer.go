package elzone

import (
	"fmt"
	"math"
)

// LogFormat names a camera log encoding with a matching decode curve.
type LogFormat string

const (
	FormatLogC4    LogFormat = "logc4"
	FormatSLog3    LogFormat = "slog3"
	FormatAppleLog LogFormat = "apple_log"
	FormatRedLog3  LogFormat = "redlog3"
	FormatLinear   LogFormat = "linear"
)

// DecodeFunc maps one normalized code value to scene-linear light.
type DecodeFunc func(x float64) float64

// DecoderFor selects the transfer function for a log format.
func DecoderFor(format LogFormat) (DecodeFunc, error) {
	switch format {
	case FormatLogC4:
		return decodeLogC4, nil
	case FormatSLog3:
		return decodeSLog3, nil
	case FormatAppleLog:
		return decodeAppleLog, nil
	case FormatRedLog3:
		return decodeRedLog3G10, nil
	case FormatLinear:
		return decodeLinear, nil
	default:
		return nil, fmt.Errorf("elzone: unsupported log format %q", format)
	}
}

// ARRI LogC4 curve constants.
const (
	logC4A = 0.0647954196341293
	logC4B = 0.0799017958419154
	logC4C = 0.0851858618842153
	logC4D = 0.0562935137369496
)

func decodeLogC4(x float64) float64 {
	var linear float64
	if x > logC4C {
		linear = math.Pow(10, (x-logC4D)/logC4A) - logC4B/logC4A
	} else {
		linear = (x - logC4C) / logC4B
	}
	return math.Max(linear, 0)
}

// Sony S-Log3 curve constants.
const slog3Cut = 171.2102946929 / 1023.0

func decodeSLog3(x float64) float64 {
	if x >= slog3Cut {
		return math.Pow(10, (x*1023-420)/261.5)*(0.18+0.01) - 0.01
	}
	return (x*1023 - 95) * 0.01125 / (171.2102946929 - 95)
}

func decodeAppleLog(x float64) float64 {
	return math.Pow(10, (x-0.3584)/0.2471)
}

// RED Log3G10 curve constants.
const (
	redLog3A   = 0.224282
	redLog3Cut = 0.01
)

func decodeRedLog3G10(x float64) float64 {
	var linear float64
	if x >= redLog3Cut {
		linear = math.Pow(10, (x*1023-685)/300) / 1023
	} else {
		linear = x * redLog3A
	}
	return math.Max(linear, 0)
}

func decodeLinear(x float64) float64 {
	return x
}
