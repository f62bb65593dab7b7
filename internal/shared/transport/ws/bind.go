package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

// Bind 把已解析成 map 的 Msg 解码到目标结构体，字段名按 json tag 匹配，
// 数字/字符串之间允许弱类型转换（前端常把坐标发成字符串）。
func Bind(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errors.New("ws request body is nil")
	}
	if req.Body.Msg == nil {
		return errors.New("ws request msg is empty")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
