package pipeline

import (
	"fmt"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/genparse"
)

// fallbackRTLCode is the fixed placeholder substituted when the generation
// backend is unavailable or fails. It always passes validation.
const fallbackRTLCode = `module sample_module (
    input wire clk,
    input wire rst_n,
    input wire [7:0] data_in,
    output reg [7:0] data_out,
    output reg valid
);
    // Sample implementation
    always @(posedge clk or negedge rst_n) begin
        if (!rst_n) begin
            data_out <= 8'b0;
            valid <= 1'b0;
        end else begin
            data_out <= data_in;
            valid <= 1'b1;
        end
    end
endmodule`

func fallbackRTL() genparse.Result {
	return genparse.Result{
		ModuleName:  "sample_module",
		Code:        fallbackRTLCode,
		Explanation: "Fallback implementation - basic register with valid signal",
	}
}

func fallbackTestbench(moduleName string) string {
	return fmt.Sprintf("`timescale 1ns/1ps"+`

module tb_%[1]s;
    reg clk;
    reg rst_n;

    // Clock generation
    always #5 clk = ~clk;

    // Test sequence
    initial begin
        $dumpfile("waves.vcd");
        $dumpvars(0, tb_%[1]s);

        clk = 0;
        rst_n = 0;

        #20 rst_n = 1;

        // Add test cases here

        #100 $finish;
    end

    // Instantiate DUT
    %[1]s dut (
        .clk(clk),
        .rst_n(rst_n)
        // Connect other ports
    );

endmodule`, moduleName)
}
