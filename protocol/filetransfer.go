package protocol

import "encoding/binary"

// FileTransferData carries one segment of file content. Frame type 3. An
// empty (ChunkSize == 0) data frame is the terminal EOF marker.
type FileTransferData struct {
	SegmentIdx uint32
	ChunkSize  uint32
	Data       []byte
}

// Marshal encodes the payload: u32_le segment_idx, u32_le chunk_size, then
// chunk_size data bytes.
func (f FileTransferData) Marshal() []byte {
	buf := make([]byte, 8+len(f.Data))
	binary.LittleEndian.PutUint32(buf[0:4], f.SegmentIdx)
	binary.LittleEndian.PutUint32(buf[4:8], f.ChunkSize)
	copy(buf[8:], f.Data)
	return buf
}

// ParseFileTransferData decodes a FileTransferData payload.
func ParseFileTransferData(payload []byte) (FileTransferData, error) {
	if len(payload) < 8 {
		return FileTransferData{}, ErrShortPayload
	}
	segmentIdx := binary.LittleEndian.Uint32(payload[0:4])
	chunkSize := binary.LittleEndian.Uint32(payload[4:8])
	if uint32(len(payload)-8) < chunkSize {
		return FileTransferData{}, ErrShortPayload
	}
	return FileTransferData{
		SegmentIdx: segmentIdx,
		ChunkSize:  chunkSize,
		Data:       payload[8 : 8+chunkSize],
	}, nil
}

// FileTransferAck carries the next segment index the receiver expects.
// Frame type 4.
type FileTransferAck struct {
	SegmentIdx uint32
}

func (a FileTransferAck) Marshal() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, a.SegmentIdx)
	return buf
}

// ParseFileTransferAck decodes a FileTransferAck payload.
func ParseFileTransferAck(payload []byte) (FileTransferAck, error) {
	if len(payload) < 4 {
		return FileTransferAck{}, ErrShortPayload
	}
	return FileTransferAck{SegmentIdx: binary.LittleEndian.Uint32(payload[:4])}, nil
}
