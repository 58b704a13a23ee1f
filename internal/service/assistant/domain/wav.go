package domain

import (
	"bytes"
	"encoding/binary"
)

// PCMFormat 描述原始 PCM 音频
type PCMFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultPCMFormat 是语音模型默认输出的格式
var DefaultPCMFormat = PCMFormat{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

// EncodeWAV 给小端 PCM 数据加上 44 字节的 RIFF 头
func EncodeWAV(pcm []byte, f PCMFormat) []byte {
	blockAlign := f.Channels * f.BitsPerSample / 8
	byteRate := f.SampleRate * blockAlign

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(buf, binary.LittleEndian, uint32(f.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(f.BitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
