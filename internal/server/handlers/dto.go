package handlers

type checkRequest struct {
	Hash       string `json:"hash" validate:"required,max=128,pathelem"`
	FilePath   string `json:"filepath" validate:"required_without=FileName"`
	FileName   string `json:"filename"`
	TargetPath string `json:"target_path"`
}

type checkResponse struct {
	Exists         bool     `json:"exists"`
	IsFolder       bool     `json:"is_folder,omitempty"`
	Size           int64    `json:"size,omitempty"`
	UploadedChunks []string `json:"uploaded_chunks"`
	ChunkCount     int      `json:"chunk_count,omitempty"`
}

type chunkForm struct {
	Hash        string `json:"hash" validate:"required,max=128,pathelem"`
	ChunkIndex  int    `json:"chunkIndex" validate:"gte=0,ltfield=TotalChunks"`
	TotalChunks int    `json:"totalChunks" validate:"gte=1"`
	FilePath    string `json:"filepath"`
	FileName    string `json:"filename"`
	TargetPath  string `json:"target_path"`
}

type chunkResponse struct {
	Success bool   `json:"success"`
	Chunk   int    `json:"chunk"`
	Message string `json:"message"`
}

type mergeRequest struct {
	Hash        string `json:"hash" validate:"required,max=128,pathelem"`
	FileName    string `json:"filename"`
	FilePath    string `json:"filepath" validate:"required_without=FileName"`
	TargetPath  string `json:"target_path"`
	TotalChunks int    `json:"totalChunks" validate:"gte=1"`
}

type mergeResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"filename"`
	FilePath string `json:"filepath"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type cancelRequest struct {
	Hash string `json:"hash" validate:"required,max=128,pathelem"`
}

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name" validate:"required,pathelem"`
}

type deleteRequest struct {
	FilePath string `json:"filepath" validate:"required"`
}

type renameRequest struct {
	OldPath string `json:"old_path" validate:"required"`
	NewName string `json:"new_name" validate:"required,pathelem"`
}

type moveRequest struct {
	SourcePath string `json:"source_path" validate:"required"`
	TargetDir  string `json:"target_dir"`
}

type archiveItem struct {
	Path string `json:"path" validate:"required"`
	Name string `json:"name" validate:"omitempty,pathelem"`
}

type batchDownloadRequest struct {
	Files       []archiveItem `json:"files" validate:"dive"`
	Folders     []archiveItem `json:"folders" validate:"dive"`
	CurrentPath string        `json:"current_path"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	NewPath string `json:"new_path,omitempty"`
}

// destination builds the upload destination from the request fields: the
// relative path (or bare file name) under the target folder.
func destination(target, filePath, fileName string) string {
	if filePath == "" {
		filePath = fileName
	}
	if target == "" {
		return filePath
	}
	return target + "/" + filePath
}
